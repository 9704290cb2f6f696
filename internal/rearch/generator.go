package rearch

import (
	"strings"

	"github.com/refracthq/refract/internal/model"
)

// maxActions bounds every proposal's action list
const maxActions = 3

// actionRule maps a trigger group to a fixed pair of remediation
// actions. Groups are independent; matching is unanchored substring
// containment against the lowercased problem sentence.
type actionRule struct {
	triggers []string
	actions  []string
}

// catalog is the fixed remediation catalog, evaluated in declaration
// order
var catalog = []actionRule{
	{
		triggers: []string{"issue", "bug", "label"},
		actions: []string{
			"Add an auto-triage step that labels incoming reports by matching title and body keywords.",
			"Close stale duplicates automatically and link them to a single tracking thread.",
		},
	},
	{
		triggers: []string{"workflow", "cron", "gh token", "secret"},
		actions: []string{
			"Audit token and secret scopes, rotate anything long-lived, and pin third-party steps.",
			"Instrument scheduled jobs so every run reports duration, outcome, and failure detail.",
		},
	},
	{
		triggers: []string{"email", "notify"},
		actions: []string{
			"Validate recipient configuration up front and reject malformed addresses before sending.",
			"Add a fallback notification channel so delivery failures degrade gracefully.",
		},
	},
}

// fallbackAction is emitted when no trigger group matches
const fallbackAction = "Clarify the requirement and spike a minimal proof of concept before committing to a design."

// Generator turns focal points into remediation proposals
type Generator struct {
	rules []actionRule
}

// NewGenerator creates a generator backed by the fixed catalog
func NewGenerator() *Generator {
	return &Generator{rules: catalog}
}

// Propose maps each focal point to one proposal, preserving order and
// reusing the focal point's ID. Every proposal carries the same four
// design principles.
func (g *Generator) Propose(points []model.FocalPoint) []model.Proposal {
	proposals := make([]model.Proposal, 0, len(points))
	for _, fp := range points {
		proposals = append(proposals, model.Proposal{
			ID:         fp.ID,
			Problem:    fp.Summary,
			Proposals:  g.actionsFor(fp.Summary),
			Principles: model.DefaultPrinciples(),
		})
	}
	return proposals
}

// actionsFor collects the actions of every matching trigger group,
// falls back to a single generic action when nothing matched, and
// truncates to three
func (g *Generator) actionsFor(sentence string) []string {
	lower := strings.ToLower(sentence)

	var actions []string
	for _, rule := range g.rules {
		if containsAny(lower, rule.triggers) {
			actions = append(actions, rule.actions...)
		}
	}

	if len(actions) == 0 {
		return []string{fallbackAction}
	}
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	return actions
}

func containsAny(lower string, triggers []string) bool {
	for _, trig := range triggers {
		if strings.Contains(lower, trig) {
			return true
		}
	}
	return false
}
