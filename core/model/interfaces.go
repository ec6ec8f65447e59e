// Package model defines the narrow interface through which NLP components
// consume a trained maximum entropy model, and helpers that work against it.
package model

// Classifier maps a context of predicate names to a probability
// distribution over outcomes.
type Classifier interface {
	// Eval returns one probability per outcome. Unknown predicates are
	// ignored.
	Eval(context []string) []float64

	// EvalValues is Eval with a weight per predicate.
	EvalValues(context []string, values []float64) ([]float64, error)

	// BestOutcome returns the most probable outcome label of probs.
	BestOutcome(probs []float64) string

	// AllOutcomes formats probs for display.
	AllOutcomes(probs []float64) string

	// Outcome returns the label of outcome id i.
	Outcome(i int) string

	// Index returns the id of an outcome label, or -1.
	Index(outcome string) int

	// NumOutcomes returns the number of outcomes.
	NumOutcomes() int
}
