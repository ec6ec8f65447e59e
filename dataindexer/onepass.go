package dataindexer

import (
	"time"

	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// OnePass reads the stream once and keeps every event in memory while the
// vocabulary is built.
type OnePass struct {
	Cutoff int
}

// NewOnePass creates a one-pass indexer.
func NewOnePass(cutoff int) *OnePass {
	return &OnePass{Cutoff: cutoff}
}

// Index implements Indexer.
func (ix *OnePass) Index(s event.Stream) (*Indexed, error) {
	logger := log.GetLoggerWithName("dataindexer.onepass")
	start := time.Now()
	logger.Info("Indexing events",
		log.OperationKey, log.OperationIndex,
		log.CutoffKey, ix.Cutoff,
	)

	events, err := event.ReadAll(s)
	if err != nil {
		return nil, errors.Wrap(err, "read events")
	}

	c := newCounter()
	for _, ev := range events {
		c.add(ev)
	}
	vocab, err := c.vocabulary(ix.Cutoff)
	if err != nil {
		return nil, err
	}

	enc := newEncoder(vocab)
	for _, ev := range events {
		enc.add(ev)
	}
	d := enc.result(c.numEvents)

	logDone(logger, d, start)
	return d, nil
}

func logDone(logger log.Logger, d *Indexed, start time.Time) {
	logger.Info("Indexing complete",
		log.EventsKey, d.NumEvents,
		log.UniqueEventsKey, d.NumUniqueEvents(),
		log.OutcomesKey, len(d.OutcomeLabels),
		log.PredicatesKey, len(d.PredLabels),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
}
