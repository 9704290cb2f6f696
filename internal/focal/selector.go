package focal

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/refracthq/refract/internal/model"
)

const (
	// maxTriggers is how many top-ranked keywords act as triggers
	maxTriggers = 6
	// maxFocal is how many sentence focal points survive ranking
	maxFocal = 5
)

// Selector picks the sentences and keywords judged most central to the
// input
type Selector struct{}

// NewSelector creates a new focal point selector
func NewSelector() *Selector {
	return &Selector{}
}

// candidate pairs a sentence with the triggers it matched
type candidate struct {
	sentence string
	triggers []string
}

// Select ranks every sentence by overlap with the top six keywords and
// returns both focal point lists. Matching is unanchored substring
// containment against the lowercased sentence, so a trigger "cat" also
// fires on "category". Candidates sort by distinct trigger count, then
// by sentence length in runes; the sort is stable, so full ties keep
// original sentence order. Micro focal points mirror the trigger
// keywords and are emitted even when no sentence matched anything.
func (s *Selector) Select(sentences []string, keywords []model.Keyword) model.FocalPoints {
	triggers := make([]string, 0, maxTriggers)
	for _, kw := range keywords {
		if len(triggers) == maxTriggers {
			break
		}
		triggers = append(triggers, kw.Keyword)
	}

	var candidates []candidate
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		var matched []string
		for _, trig := range triggers {
			if strings.Contains(lower, trig) {
				matched = append(matched, trig)
			}
		}
		if len(matched) > 0 {
			candidates = append(candidates, candidate{sentence: sentence, triggers: matched})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].triggers) != len(candidates[j].triggers) {
			return len(candidates[i].triggers) > len(candidates[j].triggers)
		}
		li := utf8.RuneCountInString(candidates[i].sentence)
		lj := utf8.RuneCountInString(candidates[j].sentence)
		return li > lj
	})

	if len(candidates) > maxFocal {
		candidates = candidates[:maxFocal]
	}

	points := make([]model.FocalPoint, 0, len(candidates))
	for i, c := range candidates {
		points = append(points, model.FocalPoint{
			ID:       fmt.Sprintf("F%d", i+1),
			Summary:  c.sentence,
			Triggers: c.triggers,
		})
	}

	micro := make([]model.MicroFocalPoint, 0, len(triggers))
	for i, trig := range triggers {
		micro = append(micro, model.MicroFocalPoint{
			ID:      fmt.Sprintf("K%d", i+1),
			Keyword: trig,
		})
	}

	return model.FocalPoints{Focal: points, Micro: micro}
}
