package model

import (
	"io"

	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/metrics"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// Evaluation summarises a classifier's predictions on held-out events.
type Evaluation struct {
	Events   int
	Accuracy float64
	// LogLoss is the mean negative log-probability of the reference
	// outcome. Outcomes the classifier does not know count as probability
	// zero.
	LogLoss  float64
	PerLabel map[string]metrics.Counts
}

// Evaluate reads s to the end and scores c's best outcome for every event
// against the event's outcome. It does not close s.
func Evaluate(c Classifier, s event.Stream) (*Evaluation, error) {
	var yTrue, yPred []string
	var probTrue []float64
	for {
		ev, err := s.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read evaluation events")
		}

		probs, err := c.EvalValues(ev.Context, ev.Values)
		if err != nil {
			return nil, err
		}
		yTrue = append(yTrue, ev.Outcome)
		yPred = append(yPred, c.BestOutcome(probs))
		if oid := c.Index(ev.Outcome); oid >= 0 {
			probTrue = append(probTrue, probs[oid])
		} else {
			probTrue = append(probTrue, 0)
		}
	}
	if len(yTrue) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "no evaluation events")
	}

	accuracy, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	logLoss, err := metrics.LogLoss(probTrue)
	if err != nil {
		return nil, err
	}
	perLabel, err := metrics.PerLabel(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("model.evaluate").Info("Evaluation complete",
		log.OperationKey, log.OperationEval,
		log.EventsKey, len(yTrue),
		log.AccuracyKey, accuracy,
	)
	return &Evaluation{
		Events:   len(yTrue),
		Accuracy: accuracy,
		LogLoss:  logLoss,
		PerLabel: perLabel,
	}, nil
}
