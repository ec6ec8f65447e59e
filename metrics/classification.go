// Package metrics scores outcome predictions against reference labels.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Accuracy returns the fraction of predictions equal to the reference label.
func Accuracy(yTrue, yPred []string) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty input")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred))
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// LogLoss is the mean negative log-probability assigned to the reference
// outcome. Probabilities are clipped to [eps, 1].
func LogLoss(probTrue []float64) (float64, error) {
	n := len(probTrue)
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty input")
	}

	const eps = 1e-15
	var sum float64
	for _, p := range probTrue {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return 0, errors.NewValueError("LogLoss", "probabilities must be in [0, 1]")
		}
		sum -= math.Log(math.Max(p, eps))
	}
	return sum / float64(n), nil
}

// Counts holds per-label tallies for a set of predictions.
type Counts struct {
	TruePositive  int
	FalsePositive int
	FalseNegative int
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted.
func (c Counts) Precision() float64 {
	if c.TruePositive+c.FalsePositive == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalsePositive)
}

// Recall returns TP / (TP + FN), or 0 when the label never occurs.
func (c Counts) Recall() float64 {
	if c.TruePositive+c.FalseNegative == 0 {
		return 0
	}
	return float64(c.TruePositive) / float64(c.TruePositive+c.FalseNegative)
}

// F1 is the harmonic mean of precision and recall.
func (c Counts) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// PerLabel tallies true positives, false positives and false negatives for
// every label that appears in yTrue or yPred.
func PerLabel(yTrue, yPred []string) (map[string]Counts, error) {
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("PerLabel", len(yTrue), len(yPred))
	}
	out := make(map[string]Counts)
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c := out[yTrue[i]]
			c.TruePositive++
			out[yTrue[i]] = c
			continue
		}
		fn := out[yTrue[i]]
		fn.FalseNegative++
		out[yTrue[i]] = fn
		fp := out[yPred[i]]
		fp.FalsePositive++
		out[yPred[i]] = fp
	}
	return out, nil
}
