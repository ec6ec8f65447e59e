package training

import (
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/maxent/dataindexer"
	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

const progressPeriod = 10

// Train resolves PARAMS_FILE, validates p and trains a model from s with
// the algorithm p names. Every run is logged under a fresh run id. Train
// does not close s.
//
// Example:
//
//	s, err := event.OpenFile("ppa/training")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	params := training.NewParameters().
//	    Set(training.IterationsParam, "400").
//	    Set(training.CutoffParam, "1")
//	model, err := training.NewRegistry().Train(s, params)
func (r *Registry) Train(s event.Stream, p *Parameters) (*gis.Model, error) {
	runID := uuid.New().String()
	logger := log.GetLoggerWithName("training").With(log.EstimatorIDKey, runID)

	params, err := resolve(p)
	if err != nil {
		return nil, err
	}
	fn, err := r.Lookup(params.Algorithm())
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info("Training started",
		log.OperationKey, log.OperationTrain,
		log.ModelNameKey, params.Algorithm(),
	)
	m, err := fn(s, params, logger)
	if err != nil {
		logger.Error("Training failed", err, log.DurationMsKey, time.Since(start).Milliseconds())
		return nil, err
	}
	logger.Info("Training finished",
		log.OutcomesKey, m.NumOutcomes(),
		log.PredicatesKey, len(m.PredLabels()),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// resolve returns a copy of p with the values of its params file, if any,
// merged over it.
func resolve(p *Parameters) (*Parameters, error) {
	out := NewParameters()
	if p != nil {
		out.Merge(p)
	}
	path, ok := out.Get(ParamsFileParam)
	if !ok || path == "" {
		return out, nil
	}
	fromFile, err := LoadParamsFile(path)
	if err != nil {
		return nil, err
	}
	out.Merge(fromFile)
	return out, nil
}

// TrainGIS indexes s and trains a GIS model.
func TrainGIS(s event.Stream, p *Parameters, logger log.Logger) (*gis.Model, error) {
	cutoff, err := p.Cutoff()
	if err != nil {
		return nil, err
	}
	kind, err := p.DataIndexer()
	if err != nil {
		return nil, err
	}
	cfg, err := p.GISConfig()
	if err != nil {
		return nil, err
	}

	var indexer dataindexer.Indexer
	switch kind {
	case dataindexer.KindOnePass:
		indexer = dataindexer.NewOnePass(cutoff)
	default:
		indexer = dataindexer.NewTwoPass(cutoff)
	}
	d, err := indexer.Index(s)
	if err != nil {
		return nil, errors.Wrap(err, "index events")
	}

	cfg.Logger = logger
	cfg.Callbacks = append(cfg.Callbacks, gis.LogProgress(logger, progressPeriod))
	return gis.NewTrainer(cfg).Train(d)
}
