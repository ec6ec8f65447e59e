// Package dataindexer turns a stream of events into the compact numeric
// training set consumed by the GIS trainer.
//
// Predicates occurring fewer than cutoff times across the corpus are removed
// from every event. Identical events (same outcome, same sorted predicate ids
// and values) are merged and their multiplicity recorded.
package dataindexer

import (
	"github.com/YuminosukeSato/maxent/event"
)

// Indexed is an indexed training set. Slices indexed by event are aligned
// and cover unique events only. Predicate ids index PredLabels and
// PredCounts; outcome ids index OutcomeLabels.
//
// The trainer owns an Indexed value while training and does not modify it.
type Indexed struct {
	Contexts           [][]int
	Values             [][]float64 // nil when no event carried real values
	OutcomeList        []int
	NumTimesEventsSeen []int

	PredLabels    []string
	PredCounts    []int
	OutcomeLabels []string

	// NumEvents is the number of events read before merging.
	NumEvents int
}

// NumUniqueEvents is the number of events after merging.
func (d *Indexed) NumUniqueEvents() int {
	return len(d.Contexts)
}

// EventValues returns the values of unique event i, or nil if all its
// predicates have weight 1.
func (d *Indexed) EventValues(i int) []float64 {
	if d.Values == nil {
		return nil
	}
	return d.Values[i]
}

// Indexer builds an Indexed training set from an event stream. Indexers do
// not close the stream.
type Indexer interface {
	Index(s event.Stream) (*Indexed, error)
}

// Kind names an indexer implementation.
type Kind string

const (
	KindOnePass Kind = "OnePass"
	KindTwoPass Kind = "TwoPass"
)
