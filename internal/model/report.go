package model

import "time"

// SentenceKind categorizes a sentence in the deconstruction stage
type SentenceKind string

const (
	KindFact     SentenceKind = "fact"     // Verifiable signal: digit runs, years, artifact words
	KindClaim    SentenceKind = "claim"    // Normative or prescriptive statement
	KindQuestion SentenceKind = "question" // Interrogative form
)

// Meta carries report provenance
type Meta struct {
	Timestamp  time.Time `json:"timestamp"`  // Assembly time, serialized as ISO-8601
	SourceSize int       `json:"sourceSize"` // Input length in characters
}

// Deconstruction groups the input's sentences by kind.
// The three buckets partition the sentence sequence; original order is
// preserved within each bucket.
type Deconstruction struct {
	Facts     []string `json:"facts"`
	Claims    []string `json:"claims"`
	Questions []string `json:"questions"`
}

// Len returns the total number of classified sentences
func (d Deconstruction) Len() int {
	return len(d.Facts) + len(d.Claims) + len(d.Questions)
}

// Keyword is a ranked (token, frequency) pair
type Keyword struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// FocalPoint is a sentence judged central to the input, selected by
// keyword-overlap ranking
type FocalPoint struct {
	ID       string   `json:"id"`       // "F<n>", 1-indexed by rank
	Summary  string   `json:"summary"`  // The source sentence, verbatim
	Triggers []string `json:"triggers"` // Top keywords contained in the sentence
}

// MicroFocalPoint is a top keyword emitted as a secondary focal point,
// independent of any sentence match
type MicroFocalPoint struct {
	ID      string `json:"id"` // "K<n>", 1-indexed by keyword rank
	Keyword string `json:"keyword"`
}

// FocalPoints bundles both focal point lists
type FocalPoints struct {
	Focal []FocalPoint      `json:"focal"` // At most 5 ranked sentences
	Micro []MicroFocalPoint `json:"micro"` // min(6, available keywords)
}

// Proposal holds the remediation actions generated for one focal point
type Proposal struct {
	ID         string   `json:"id"`         // Matches the focal point ID
	Problem    string   `json:"problem"`    // The focal sentence
	Proposals  []string `json:"proposals"`  // 1..3 actions, trigger-group order
	Principles []string `json:"principles"` // Constant guiding labels
}

// Report is the terminal aggregate of one analysis run.
// It is assembled once and never mutated afterwards.
type Report struct {
	Meta           Meta           `json:"meta"`
	Deconstruction Deconstruction `json:"deconstruction"`
	Keywords       []Keyword      `json:"keywords"`
	FocalPoints    FocalPoints    `json:"focalPoints"`
	Rearchitecture []Proposal     `json:"rearchitecture"`
}

// DefaultPrinciples returns the standard refract principles attached to
// every proposal
func DefaultPrinciples() []string {
	return []string{"Simple", "Efficient", "Pragmatic", "Safe"}
}
