package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInputMissing reports that no source produced any text
	ErrInputMissing = errors.New("no input text provided")
	// ErrInputTooLarge reports that the text exceeds the size guard
	ErrInputTooLarge = errors.New("input exceeds maximum size")
)

// ReadInput obtains the raw text from exactly one local source, in
// priority order: a named file, the positional arguments joined with
// single spaces, or the fully buffered stream. Remote sources are
// fetched by the caller and bypass this helper.
func ReadInput(path string, args []string, stdin io.Reader) (string, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

// Guard validates text against the invocation contract before any
// stage runs. Size is measured in runes, not bytes, so multibyte
// input is not penalized. A maxChars of zero disables the size check.
func Guard(text string, maxChars int) error {
	if strings.TrimSpace(text) == "" {
		return ErrInputMissing
	}
	if maxChars > 0 {
		if n := utf8.RuneCountInString(text); n > maxChars {
			return fmt.Errorf("%w: %d characters (limit %d)", ErrInputTooLarge, n, maxChars)
		}
	}
	return nil
}
