// Package resolver collapses ambiguous product references to exactly one
// concrete product, using a language-model call guarded by a cached-choice
// layer and a deterministic fallback scorer.
package resolver

import (
	"time"

	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
)

// ConversationTurn is one prior exchange, supplied most-recent-first by the
// session collaborator. Read-only context; never mutated here.
type ConversationTurn struct {
	CustomerMessage string
	Response        string
	Timestamp       time.Time
}

// Resolution is the outcome of a specific-product resolution. Product is
// nil when no single product could be identified; that is a valid,
// well-defined answer, not an error.
type Resolution struct {
	Product    *knowledge.Entry
	Confidence float64
	IsSpecific bool
	Reasoning  string
}

// candidate pairs a store entry with the fields shown to the model.
type candidate struct {
	entry       knowledge.Entry
	name        string
	description string
	price       float64
}
