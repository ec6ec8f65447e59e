package gis

import (
	"time"

	"github.com/YuminosukeSato/maxent/pkg/log"
)

// CallbackEnv describes one finished training iteration. LogLikelihood and
// Accuracy are measured on the training events with the parameters the
// iteration started from.
type CallbackEnv struct {
	Iteration     int
	Iterations    int
	LogLikelihood float64
	Accuracy      float64
	BeginTime     time.Time
	EndTime       time.Time
	// Params are the parameters after the iteration's update. Callbacks must
	// not modify them.
	Params *EvalParameters
}

// Callback is called after every training iteration. A non-nil error aborts
// training.
type Callback func(env *CallbackEnv) error

// LogProgress logs the log-likelihood and training accuracy every period
// iterations and on the last one.
func LogProgress(logger log.Logger, period int) Callback {
	if period < 1 {
		period = 1
	}
	return func(env *CallbackEnv) error {
		if env.Iteration%period == 0 || env.Iteration == env.Iterations {
			logger.Info("Training progress",
				log.IterationKey, env.Iteration,
				log.IterationsKey, env.Iterations,
				log.LogLikelihoodKey, env.LogLikelihood,
				log.AccuracyKey, env.Accuracy,
				log.DurationMsKey, env.EndTime.Sub(env.BeginTime).Milliseconds(),
			)
		}
		return nil
	}
}

// History records per-iteration training metrics.
type History struct {
	LogLikelihood []float64
	Accuracy      []float64
}

// RecordHistory appends every iteration's metrics to h.
func RecordHistory(h *History) Callback {
	return func(env *CallbackEnv) error {
		h.LogLikelihood = append(h.LogLikelihood, env.LogLikelihood)
		h.Accuracy = append(h.Accuracy, env.Accuracy)
		return nil
	}
}
