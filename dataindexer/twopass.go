package dataindexer

import (
	"io"
	"time"

	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// TwoPass counts predicates in a first pass, resets the stream and encodes
// events in a second pass. Only the merged events are held in memory, so the
// stream must support Reset.
type TwoPass struct {
	Cutoff int
}

// NewTwoPass creates a two-pass indexer.
func NewTwoPass(cutoff int) *TwoPass {
	return &TwoPass{Cutoff: cutoff}
}

// Index implements Indexer.
func (ix *TwoPass) Index(s event.Stream) (*Indexed, error) {
	logger := log.GetLoggerWithName("dataindexer.twopass")
	start := time.Now()
	logger.Info("Indexing events",
		log.OperationKey, log.OperationIndex,
		log.CutoffKey, ix.Cutoff,
	)

	c := newCounter()
	if err := each(s, c.add); err != nil {
		return nil, errors.Wrap(err, "count events")
	}
	logger.Debug("Computed event counts", log.EventsKey, c.numEvents)

	vocab, err := c.vocabulary(ix.Cutoff)
	if err != nil {
		return nil, err
	}

	if err := s.Reset(); err != nil {
		return nil, errors.Wrap(err, "two-pass indexing needs a resettable stream")
	}
	enc := newEncoder(vocab)
	if err := each(s, enc.add); err != nil {
		return nil, errors.Wrap(err, "encode events")
	}
	if enc.n != c.numEvents {
		return nil, errors.Newf("stream changed between passes: %d events, then %d", c.numEvents, enc.n)
	}
	d := enc.result(c.numEvents)

	logDone(logger, d, start)
	return d, nil
}

func each(s event.Stream, fn func(*event.Event)) error {
	for {
		ev, err := s.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fn(ev)
	}
}
