package event

import (
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// ParseLine parses one "outcome ctx1 ctx2 ..." line. line is the 1-based line
// number used in diagnostics.
//
// With realValues set, a context token "name=value" whose value parses as a
// non-negative number contributes that weight under "name". A negative value
// is an InputError. An unparsable value leaves the token intact with weight 1
// and raises a ValueParseWarning. Values is nil unless at least one token
// carried a weight.
//
// A blank line raises a MalformedEventWarning and returns a nil event and a
// nil error.
func ParseLine(text string, line int, realValues bool) (*Event, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		errors.Warn(errors.NewMalformedEventWarning(line, text, "no outcome"))
		return nil, nil
	}

	ev := &Event{Outcome: fields[0], Context: fields[1:]}
	if !realValues || len(ev.Context) == 0 {
		return ev, nil
	}

	values := make([]float64, len(ev.Context))
	hasReal := false
	for i, tok := range ev.Context {
		values[i] = 1
		ei := strings.LastIndexByte(tok, '=')
		if ei <= 0 || ei+1 >= len(tok) {
			continue
		}
		v, err := strconv.ParseFloat(tok[ei+1:], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errors.Warn(errors.NewValueParseWarning(tok))
			continue
		}
		if v < 0 {
			return nil, errors.NewInputError(line, tok, "negative values are not allowed")
		}
		values[i] = v
		ev.Context[i] = tok[:ei]
		hasReal = true
	}
	if hasReal {
		ev.Values = values
	}
	return ev, nil
}
