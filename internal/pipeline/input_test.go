package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInput_FileTakesPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("from the file"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	text, err := ReadInput(path, []string{"from", "args"}, strings.NewReader("from stdin"))
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if text != "from the file" {
		t.Errorf("Expected file content, got %q", text)
	}
}

func TestReadInput_ArgsJoinedWithSpaces(t *testing.T) {
	text, err := ReadInput("", []string{"The", "cache", "broke."}, strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if text != "The cache broke." {
		t.Errorf("Expected joined args, got %q", text)
	}
}

func TestReadInput_FallsBackToStdin(t *testing.T) {
	text, err := ReadInput("", nil, strings.NewReader("piped text"))
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if text != "piped text" {
		t.Errorf("Expected stdin content, got %q", text)
	}
}

func TestReadInput_MissingFile(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "nope.txt"), nil, strings.NewReader(""))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "read input file") {
		t.Errorf("Expected wrapped read error, got %v", err)
	}
}

func TestGuard_MissingInput(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n "} {
		if err := Guard(text, 100); !errors.Is(err, ErrInputMissing) {
			t.Errorf("Expected ErrInputMissing for %q, got %v", text, err)
		}
	}
}

func TestGuard_SizeLimit(t *testing.T) {
	t.Run("at the limit", func(t *testing.T) {
		if err := Guard(strings.Repeat("x", 50), 50); err != nil {
			t.Errorf("Expected exactly-at-limit text to pass, got %v", err)
		}
	})

	t.Run("over the limit", func(t *testing.T) {
		err := Guard(strings.Repeat("x", 51), 50)
		if !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("Expected ErrInputTooLarge, got %v", err)
		}
		if !strings.Contains(err.Error(), "51") || !strings.Contains(err.Error(), "50") {
			t.Errorf("Expected counts in the message, got %v", err)
		}
	})

	t.Run("zero disables the check", func(t *testing.T) {
		if err := Guard(strings.Repeat("x", 1_000_000), 0); err != nil {
			t.Errorf("Expected no limit with zero maxChars, got %v", err)
		}
	})

	t.Run("runes not bytes", func(t *testing.T) {
		// ten runes, twenty bytes
		if err := Guard(strings.Repeat("é", 10), 10); err != nil {
			t.Errorf("Expected rune counting, got %v", err)
		}
	})
}
