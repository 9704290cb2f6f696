package deconstruct

import (
	"regexp"
	"strings"

	"github.com/refracthq/refract/internal/model"
)

var (
	digitRunRE     = regexp.MustCompile(`\d{2,}`)
	recentYearRE   = regexp.MustCompile(`\b202[0-9]\b`)
	percentageRE   = regexp.MustCompile(`\d+%`)
	factKeywordRE  = regexp.MustCompile(`(?i)\b(version|error|commit|bug|issue|cron|workflow)\b`)
	questionLeadRE = regexp.MustCompile(`^(who|what|why|how)\s`)
)

// claimMarkers are matched as plain substrings of the lowercased sentence
var claimMarkers = []string{"should", "must", "need to", "we should", "recommend", "suggest", "propose"}

// rule pairs a sentence kind with its predicate
type rule struct {
	kind  model.SentenceKind
	match func(string) bool
}

// Classifier assigns exactly one kind to each sentence. Rules are
// evaluated in order and the first match wins: factual/numeric signals
// outrank normative language, which outranks interrogative form.
type Classifier struct {
	rules []rule
}

// NewClassifier creates a classifier with the standard rule order
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []rule{
			{kind: model.KindFact, match: isFactSignal},
			{kind: model.KindClaim, match: isClaimLanguage},
			{kind: model.KindQuestion, match: isQuestionForm},
		},
	}
}

// Classify returns the kind of a single sentence; KindFact when no rule matches
func (c *Classifier) Classify(sentence string) model.SentenceKind {
	for _, r := range c.rules {
		if r.match(sentence) {
			return r.kind
		}
	}
	return model.KindFact
}

// Deconstruct classifies every sentence into the three buckets, preserving
// original order within each. No sentence is dropped or duplicated.
func (c *Classifier) Deconstruct(sentences []string) model.Deconstruction {
	dec := model.Deconstruction{
		Facts:     []string{},
		Claims:    []string{},
		Questions: []string{},
	}
	for _, s := range sentences {
		switch c.Classify(s) {
		case model.KindClaim:
			dec.Claims = append(dec.Claims, s)
		case model.KindQuestion:
			dec.Questions = append(dec.Questions, s)
		default:
			dec.Facts = append(dec.Facts, s)
		}
	}
	return dec
}

// isFactSignal matches digit runs, years in the 2020s, percentages, and
// whole-word artifact vocabulary
func isFactSignal(s string) bool {
	return digitRunRE.MatchString(s) ||
		recentYearRE.MatchString(s) ||
		percentageRE.MatchString(s) ||
		factKeywordRE.MatchString(s)
}

// isClaimLanguage matches normative wording
func isClaimLanguage(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range claimMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// isQuestionForm matches a trailing question mark or an interrogative lead word
func isQuestionForm(s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	return questionLeadRE.MatchString(strings.ToLower(trimmed))
}
