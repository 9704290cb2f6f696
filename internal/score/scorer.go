package score

import (
	"sort"
	"strings"
	"unicode"

	"github.com/refracthq/refract/internal/model"
)

// maxKeywords is the number of ranked keywords retained
const maxKeywords = 12

// stopwords is the fixed function-word set excluded from ranking.
// Initialized once, never mutated.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"then": {}, "else": {}, "for": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "it": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"as": {}, "at": {}, "from": {}, "we": {}, "you": {}, "they": {}, "he": {},
	"she": {}, "i": {}, "my": {}, "our": {}, "your": {},
}

var quoteNormalizer = strings.NewReplacer("’", "'", "‘", "'")

// Scorer ranks keywords by frequency over the full input text
type Scorer struct{}

// NewScorer creates a new keyword scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Rank tokenizes the text and returns up to 12 keywords ordered by
// descending count. The sort is explicitly stable, keyed by
// (count descending, first-seen index ascending), so ties keep their
// first-occurrence order.
func (s *Scorer) Rank(text string) []model.Keyword {
	counts := make(map[string]int)
	var order []string

	for _, tok := range tokenize(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	keywords := make([]model.Keyword, 0, len(order))
	for _, tok := range order {
		keywords = append(keywords, model.Keyword{Keyword: tok, Count: counts[tok]})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// tokenize lowercases the text, straightens curly quotes, turns every
// character outside [a-z0-9'-] and whitespace into a space, and splits
// on whitespace runs
func tokenize(text string) []string {
	lower := quoteNormalizer.Replace(strings.ToLower(text))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'', r == '-':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, lower)
	return strings.Fields(cleaned)
}
