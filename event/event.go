// Package event defines training events and the streams that produce them.
package event

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Event is one labeled training instance: an outcome and the contextual
// predicates active for it. Values, when non-nil, holds a non-negative weight
// per predicate; a nil Values means every predicate has weight 1.
//
// Events are not modified after construction.
type Event struct {
	Outcome string
	Context []string
	Values  []float64
}

// New creates an event whose predicates all have weight 1.
func New(outcome string, context ...string) *Event {
	return &Event{Outcome: outcome, Context: context}
}

// NewWithValues creates an event with real-valued predicates.
func NewWithValues(outcome string, context []string, values []float64) (*Event, error) {
	if values != nil && len(values) != len(context) {
		return nil, errors.NewDimensionError("event.NewWithValues", len(context), len(values))
	}
	for i, v := range values {
		if v < 0 {
			return nil, errors.NewInputError(0, context[i], "negative values are not allowed")
		}
	}
	return &Event{Outcome: outcome, Context: context, Values: values}, nil
}

// Value returns the weight of the i-th predicate.
func (e *Event) Value(i int) float64 {
	if e.Values == nil {
		return 1
	}
	return e.Values[i]
}

// String renders the event as "outcome [ctx1 ctx2=0.5]".
func (e *Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Outcome)
	sb.WriteString(" [")
	writeContext(&sb, e)
	sb.WriteByte(']')
	return sb.String()
}

// Line renders the event in the whitespace separated form read by
// ParseLine, without a trailing newline.
func (e *Event) Line() string {
	var sb strings.Builder
	sb.WriteString(e.Outcome)
	if len(e.Context) > 0 {
		sb.WriteByte(' ')
		writeContext(&sb, e)
	}
	return sb.String()
}

func writeContext(sb *strings.Builder, e *Event) {
	for i, c := range e.Context {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c)
		if e.Values != nil {
			sb.WriteByte('=')
			sb.WriteString(strconv.FormatFloat(e.Values[i], 'g', -1, 64))
		}
	}
}
