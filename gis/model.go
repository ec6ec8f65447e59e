// Package gis implements maximum entropy models trained with Generalized
// Iterative Scaling.
package gis

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/maxent/core/model"
	"github.com/YuminosukeSato/maxent/index"
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// ModelType is the marker written at the start of every serialized GIS
// model.
const ModelType = "GIS"

const labelLoadFactor = 0.7

var _ model.Classifier = (*Model)(nil)

// Model is a trained maximum entropy model. It is immutable and safe for
// concurrent use.
type Model struct {
	params        *EvalParameters
	predLabels    []string
	outcomeLabels []string
	preds         *index.HashTable[string]
	outcomes      *index.HashTable[string]
}

// NewModel creates a model from trained parameters and the label tables
// they are indexed by.
func NewModel(params *EvalParameters, predLabels, outcomeLabels []string) (*Model, error) {
	if len(params.Params) != len(predLabels) {
		return nil, errors.NewDimensionError("gis.NewModel: predicates", len(predLabels), len(params.Params))
	}
	if params.NumOutcomes != len(outcomeLabels) || len(outcomeLabels) == 0 {
		return nil, errors.NewDimensionError("gis.NewModel: outcomes", len(outcomeLabels), params.NumOutcomes)
	}
	if !(params.CorrectionConstant > 0) {
		return nil, errors.NewValidationError("CorrectionConstant", "must be positive", params.CorrectionConstant)
	}
	for pid, ctx := range params.Params {
		if len(ctx.Outcomes) != len(ctx.Parameters) {
			return nil, errors.NewDimensionError("gis.NewModel: parameters of "+predLabels[pid], len(ctx.Outcomes), len(ctx.Parameters))
		}
		for _, oid := range ctx.Outcomes {
			if oid < 0 || oid >= params.NumOutcomes {
				return nil, errors.NewValueError("gis.NewModel", "outcome id "+strconv.Itoa(oid)+" out of range for predicate "+predLabels[pid])
			}
		}
	}

	preds, err := index.NewStrings(predLabels, labelLoadFactor)
	if err != nil {
		return nil, errors.Wrap(err, "index predicates")
	}
	outcomes, err := index.NewStrings(outcomeLabels, labelLoadFactor)
	if err != nil {
		return nil, errors.Wrap(err, "index outcomes")
	}

	return &Model{
		params:        params,
		predLabels:    predLabels,
		outcomeLabels: outcomeLabels,
		preds:         preds,
		outcomes:      outcomes,
	}, nil
}

// Eval returns the probability of every outcome given the active
// predicates. Predicates the model was not trained on are ignored.
func (m *Model) Eval(context []string) []float64 {
	probs := make([]float64, m.params.NumOutcomes)
	m.params.Eval(m.ids(context), nil, probs)
	return probs
}

// EvalValues is Eval with a weight per predicate.
func (m *Model) EvalValues(context []string, values []float64) ([]float64, error) {
	probs := make([]float64, m.params.NumOutcomes)
	if err := m.EvalInto(context, values, probs); err != nil {
		return nil, err
	}
	return probs, nil
}

// EvalInto writes the outcome distribution into probs, which must have
// NumOutcomes elements. values may be nil.
func (m *Model) EvalInto(context []string, values []float64, probs []float64) error {
	if values != nil && len(values) != len(context) {
		return errors.NewDimensionError("gis.Model.EvalInto: values", len(context), len(values))
	}
	if len(probs) != m.params.NumOutcomes {
		return errors.NewDimensionError("gis.Model.EvalInto: probs", m.params.NumOutcomes, len(probs))
	}
	m.params.Eval(m.ids(context), values, probs)
	return nil
}

func (m *Model) ids(context []string) []int {
	ids := make([]int, len(context))
	for i, c := range context {
		ids[i] = m.preds.Get(c)
	}
	return ids
}

// BestOutcome returns the label with the highest probability. Ties go to
// the lowest outcome id. It returns "" if probs was not produced by this
// model.
func (m *Model) BestOutcome(probs []float64) string {
	if len(probs) != m.params.NumOutcomes {
		return ""
	}
	return m.outcomeLabels[floats.MaxIdx(probs)]
}

// AllOutcomes formats probs as "label[0.1234]" entries separated by two
// spaces.
func (m *Model) AllOutcomes(probs []float64) string {
	if len(probs) != m.params.NumOutcomes {
		return "The probability slice passed to AllOutcomes was not produced by this model."
	}
	var sb strings.Builder
	for i, p := range probs {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(m.outcomeLabels[i])
		sb.WriteByte('[')
		sb.WriteString(strconv.FormatFloat(p, 'f', 4, 64))
		sb.WriteByte(']')
	}
	return sb.String()
}

// Outcome returns the label of outcome id i.
func (m *Model) Outcome(i int) string {
	return m.outcomeLabels[i]
}

// Index returns the id of an outcome label, or -1.
func (m *Model) Index(outcome string) int {
	return m.outcomes.Get(outcome)
}

// NumOutcomes returns the number of outcomes.
func (m *Model) NumOutcomes() int {
	return m.params.NumOutcomes
}

// PredLabels returns the predicate labels ordered by id. The slice must not
// be modified.
func (m *Model) PredLabels() []string {
	return m.predLabels
}

// OutcomeLabels returns the outcome labels ordered by id. The slice must not
// be modified.
func (m *Model) OutcomeLabels() []string {
	return m.outcomeLabels
}

// Parameters returns the model parameters. They must not be modified.
func (m *Model) Parameters() *EvalParameters {
	return m.params
}
