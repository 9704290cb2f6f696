package deconstruct

import (
	"strings"
	"unicode"
)

// Sentences splits raw text into an ordered sequence of trimmed, non-empty
// sentences. A boundary follows terminal punctuation (., ?, !) when the next
// character is whitespace, or a run of two or more newlines. Terminal
// punctuation stays attached to its sentence.
//
// No abbreviation handling: "Mr. Smith" splits after "Mr.", an accepted
// heuristic limitation.
func Sentences(raw string) []string {
	normalized := normalizeNewlines(raw)

	var pieces []string
	var cur strings.Builder

	runes := []rune(normalized)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Paragraph break: two or more consecutive newlines
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			pieces = append(pieces, cur.String())
			cur.Reset()
			for i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			continue
		}

		cur.WriteRune(r)

		if isTerminal(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
	}
	pieces = append(pieces, cur.String())

	sentences := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// normalizeNewlines collapses CRLF and lone CR to a single newline convention
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
