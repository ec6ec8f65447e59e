package gis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

func handBuiltModel(t *testing.T) *Model {
	t.Helper()
	params := NewEvalParameters([]Context{
		{Outcomes: []int{0, 1}, Parameters: []float64{math.Log(3), 0}},
		{Outcomes: []int{2}, Parameters: []float64{math.Log(8)}},
	}, 0, 1, 3)
	m, err := NewModel(params, []string{"p0", "p1"}, []string{"A", "B", "C"})
	require.NoError(t, err)
	return m
}

func TestModelEval(t *testing.T) {
	m := handBuiltModel(t)

	assert.InDeltaSlice(t, []float64{0.6, 0.2, 0.2}, m.Eval([]string{"p0"}), 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 0.25 / 3, 8.0 / 12}, m.Eval([]string{"p0", "p1"}), 1e-12)

	// unseen predicates contribute nothing
	assert.Equal(t, m.Eval(nil), m.Eval([]string{"unknown", "other"}))
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, m.Eval(nil), 1e-12)
}

func TestModelEvalValues(t *testing.T) {
	m := handBuiltModel(t)

	probs, err := m.EvalValues([]string{"p1"}, []float64{0.5})
	require.NoError(t, err)
	// exp(ln 8 * 0.5) = 2*sqrt(2)
	z := 2 + 2*math.Sqrt2
	assert.InDeltaSlice(t, []float64{1 / z, 1 / z, 2 * math.Sqrt2 / z}, probs, 1e-12)

	_, err = m.EvalValues([]string{"p0", "p1"}, []float64{1})
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	err = m.EvalInto([]string{"p0"}, nil, make([]float64, 2))
	assert.True(t, errors.As(err, &de))

	buf := make([]float64, 3)
	require.NoError(t, m.EvalInto([]string{"p0"}, nil, buf))
	assert.Equal(t, m.Eval([]string{"p0"}), buf)
}

func TestModelOutcomes(t *testing.T) {
	m := handBuiltModel(t)

	assert.Equal(t, 3, m.NumOutcomes())
	assert.Equal(t, "B", m.Outcome(1))
	assert.Equal(t, 2, m.Index("C"))
	assert.Equal(t, -1, m.Index("D"))

	assert.Equal(t, "A", m.BestOutcome([]float64{0.6, 0.2, 0.2}))
	// ties go to the lowest id
	assert.Equal(t, "B", m.BestOutcome([]float64{0.2, 0.4, 0.4}))
	assert.Equal(t, "", m.BestOutcome([]float64{1}))

	assert.Equal(t, "A[0.6000]  B[0.2000]  C[0.2000]", m.AllOutcomes([]float64{0.6, 0.2, 0.2}))
	assert.Contains(t, m.AllOutcomes([]float64{1}), "not produced by this model")
}

func TestNewModelValidation(t *testing.T) {
	ctx := []Context{{Outcomes: []int{0}, Parameters: []float64{1}}}
	tests := []struct {
		name   string
		params *EvalParameters
		preds  []string
		outs   []string
	}{
		{"predicate count", NewEvalParameters(ctx, 0, 1, 1), []string{"a", "b"}, []string{"x"}},
		{"outcome count", NewEvalParameters(ctx, 0, 1, 2), []string{"a"}, []string{"x"}},
		{"pattern length", NewEvalParameters([]Context{{Outcomes: []int{0}, Parameters: nil}}, 0, 1, 1), []string{"a"}, []string{"x"}},
		{"outcome out of range", NewEvalParameters([]Context{{Outcomes: []int{3}, Parameters: []float64{1}}}, 0, 1, 1), []string{"a"}, []string{"x"}},
		{"zero correction constant", NewEvalParameters(ctx, 0, 0, 1), []string{"a"}, []string{"x"}},
		{"duplicate predicate", NewEvalParameters(append(ctx, ctx[0]), 0, 1, 1), []string{"a", "a"}, []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.params, tt.preds, tt.outs)
			assert.Error(t, err)
		})
	}
}
