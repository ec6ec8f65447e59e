package gis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Context holds the trained weights of one predicate. Outcomes lists, in
// ascending order, the outcome ids the predicate has a weight for and
// Parameters the weight for each of them.
type Context struct {
	Outcomes   []int
	Parameters []float64
}

// NewContext creates a Context with all parameters zero.
func NewContext(outcomes []int) Context {
	return Context{Outcomes: outcomes, Parameters: make([]float64, len(outcomes))}
}

// EvalParameters is the parameter store of a GIS model, indexed by predicate
// id.
//
// Weights are stored multiplied by CorrectionConstant. Evaluation scales
// them back with ConstantInverse. The correction term adds
// (1 - f/C) * CorrectionParam to the score of every outcome, where f is the
// summed value of the active predicates that have a weight for the outcome.
//
// The trainer mutates an EvalParameters while it trains. Once handed to a
// Model it is read-only and may be shared between goroutines.
type EvalParameters struct {
	Params             []Context
	NumOutcomes        int
	CorrectionConstant float64
	CorrectionParam    float64
	ConstantInverse    float64
	// IProb is ln(1/NumOutcomes), the log-probability every outcome starts
	// with.
	IProb float64
}

// NewEvalParameters creates a parameter store. correctionConstant must be
// positive.
func NewEvalParameters(params []Context, correctionParam, correctionConstant float64, numOutcomes int) *EvalParameters {
	return &EvalParameters{
		Params:             params,
		NumOutcomes:        numOutcomes,
		CorrectionConstant: correctionConstant,
		CorrectionParam:    correctionParam,
		ConstantInverse:    1 / correctionConstant,
		IProb:              math.Log(1 / float64(numOutcomes)),
	}
}

// Eval writes the outcome distribution for the predicate ids in context into
// probs. Negative ids are skipped. values may be nil. probs must have
// NumOutcomes elements.
func (p *EvalParameters) Eval(context []int, values []float64, probs []float64) {
	p.logEval(context, values, probs, make([]float64, p.NumOutcomes))
	for o, lp := range probs {
		probs[o] = math.Exp(lp)
	}
}

// logEval writes normalised log-probabilities into logProbs. On return
// numfeats[o] holds the summed value of the active predicates having a
// weight for o.
func (p *EvalParameters) logEval(context []int, values []float64, logProbs, numfeats []float64) {
	for o := range logProbs {
		logProbs[o] = p.IProb
		numfeats[o] = 0
	}

	for ci, pid := range context {
		if pid < 0 {
			continue
		}
		value := 1.0
		if values != nil {
			value = values[ci]
		}
		pred := p.Params[pid]
		for j, oid := range pred.Outcomes {
			numfeats[oid] += value
			logProbs[oid] += pred.Parameters[j] * value * p.ConstantInverse
		}
	}

	if p.CorrectionParam != 0 {
		for o := range logProbs {
			logProbs[o] += (1 - numfeats[o]*p.ConstantInverse) * p.CorrectionParam
		}
	}

	floats.AddConst(-errors.LogSumExp(logProbs), logProbs)
}
