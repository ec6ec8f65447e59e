package gis

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/maxent/core/parallel"
	"github.com/YuminosukeSato/maxent/dataindexer"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

const (
	DefaultIterations           = 100
	DefaultSmoothingObservation = 0.1
	DefaultGaussianSigma        = 2.0

	newtonIterations = 50
	newtonTolerance  = 1e-6
)

// Config controls a GIS training run.
type Config struct {
	Iterations int
	// Threads is the number of goroutines computing model expectations.
	Threads int

	// Smoothing gives every predicate a weight for every outcome and
	// pretends unseen predicate/outcome pairs were observed
	// SmoothingObservation times.
	Smoothing            bool
	SmoothingObservation float64

	// GaussianSmoothing puts a zero-mean Gaussian prior with standard
	// deviation GaussianSigma on every weight.
	GaussianSmoothing bool
	GaussianSigma     float64

	// Correction trains the correction parameter.
	Correction bool

	Callbacks []Callback
	// Logger defaults to the "gis.trainer" logger.
	Logger log.Logger
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		Iterations:           DefaultIterations,
		Threads:              1,
		SmoothingObservation: DefaultSmoothingObservation,
		GaussianSigma:        DefaultGaussianSigma,
		Correction:           true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return errors.NewValidationError("Iterations", "must be at least 1", c.Iterations)
	}
	if c.Threads < 1 {
		return errors.NewValidationError("Threads", "must be at least 1", c.Threads)
	}
	if c.Smoothing && !(c.SmoothingObservation > 0) {
		return errors.NewValidationError("SmoothingObservation", "must be positive", c.SmoothingObservation)
	}
	if c.GaussianSmoothing && !(c.GaussianSigma > 0) {
		return errors.NewValidationError("GaussianSmoothingSigma", "must be positive", c.GaussianSigma)
	}
	return nil
}

// Trainer trains GIS models.
type Trainer struct {
	cfg    Config
	logger log.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg Config) *Trainer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("gis.trainer")
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// accumulator holds one worker's share of an iteration.
type accumulator struct {
	expected           [][]float64
	expectedCorrection float64
	logLikelihood      float64
	correct            float64
	logProbs           []float64
	probs              []float64
	numfeats           []float64
}

func (a *accumulator) reset() {
	for _, row := range a.expected {
		for j := range row {
			row[j] = 0
		}
	}
	a.expectedCorrection = 0
	a.logLikelihood = 0
	a.correct = 0
}

type run struct {
	cfg                Config
	d                  *dataindexer.Indexed
	params             *EvalParameters
	observed           [][]float64
	observedCorrection float64
	numEvents          float64
	workers            []*accumulator
}

// Train runs cfg.Iterations iterations of GIS over d and returns the model.
// d is not modified.
func (t *Trainer) Train(d *dataindexer.Indexed) (*Model, error) {
	if err := t.cfg.Validate(); err != nil {
		return nil, err
	}
	if d == nil || d.NumUniqueEvents() == 0 || len(d.PredLabels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "gis: nothing to train on")
	}

	start := time.Now()
	r := t.newRun(d)
	t.logger.Info("Training GIS model",
		log.OperationKey, log.OperationTrain,
		log.UniqueEventsKey, d.NumUniqueEvents(),
		log.OutcomesKey, len(d.OutcomeLabels),
		log.PredicatesKey, len(d.PredLabels),
		log.IterationsKey, t.cfg.Iterations,
		log.ThreadsKey, t.cfg.Threads,
		log.CorrectionConstKey, r.params.CorrectionConstant,
	)

	for it := 1; it <= t.cfg.Iterations; it++ {
		begin := time.Now()
		ll, acc := r.expectations()
		if err := r.update(it); err != nil {
			return nil, err
		}

		env := &CallbackEnv{
			Iteration:     it,
			Iterations:    t.cfg.Iterations,
			LogLikelihood: ll,
			Accuracy:      acc,
			BeginTime:     begin,
			EndTime:       time.Now(),
			Params:        r.params,
		}
		for _, cb := range t.cfg.Callbacks {
			if err := errors.SafeExecute("gis.callback", func() error { return cb(env) }); err != nil {
				return nil, errors.Wrapf(err, "callback at iteration %d", it)
			}
		}
	}

	t.logger.Info("GIS training complete",
		log.CorrectionParamKey, r.params.CorrectionParam,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return NewModel(r.params, d.PredLabels, d.OutcomeLabels)
}

func (t *Trainer) newRun(d *dataindexer.Indexed) *run {
	numPreds := len(d.PredLabels)
	numOutcomes := len(d.OutcomeLabels)

	predCount := make([][]float64, numPreds)
	for p := range predCount {
		predCount[p] = make([]float64, numOutcomes)
	}

	correctionConstant := 1.0
	numEvents := 0.0
	for e, ctx := range d.Contexts {
		n := float64(d.NumTimesEventsSeen[e])
		o := d.OutcomeList[e]
		values := d.EventValues(e)
		numEvents += n

		total := eventTotal(ctx, values)
		if total > correctionConstant {
			correctionConstant = total
		}
		for ci, pid := range ctx {
			predCount[pid][o] += n * valueAt(values, ci)
		}
	}

	params := make([]Context, numPreds)
	observed := make([][]float64, numPreds)
	for p := 0; p < numPreds; p++ {
		var outcomes []int
		for o := 0; o < numOutcomes; o++ {
			if t.cfg.Smoothing || predCount[p][o] > 0 {
				outcomes = append(outcomes, o)
			}
		}
		params[p] = NewContext(outcomes)
		observed[p] = make([]float64, len(outcomes))
		for j, o := range outcomes {
			if predCount[p][o] > 0 {
				observed[p][j] = predCount[p][o]
			} else {
				observed[p][j] = t.cfg.SmoothingObservation
			}
		}
	}

	r := &run{
		cfg:       t.cfg,
		d:         d,
		params:    NewEvalParameters(params, 0, correctionConstant, numOutcomes),
		observed:  observed,
		numEvents: numEvents,
	}

	if t.cfg.Correction {
		for e, ctx := range d.Contexts {
			n := float64(d.NumTimesEventsSeen[e])
			r.observedCorrection += n * (correctionConstant - eventSum(ctx, d.EventValues(e)))
		}
	}

	workers := len(parallel.Split(d.NumUniqueEvents(), t.cfg.Threads))
	r.workers = make([]*accumulator, workers)
	for w := range r.workers {
		acc := &accumulator{
			expected: make([][]float64, numPreds),
			logProbs: make([]float64, numOutcomes),
			probs:    make([]float64, numOutcomes),
			numfeats: make([]float64, numOutcomes),
		}
		for p := range acc.expected {
			acc.expected[p] = make([]float64, len(params[p].Outcomes))
		}
		r.workers[w] = acc
	}
	return r
}

// eventTotal is the summed predicate value of an event, rounded up when the
// event carries real values.
func eventTotal(ctx []int, values []float64) float64 {
	return math.Ceil(eventSum(ctx, values))
}

// eventSum is the summed predicate value of an event.
func eventSum(ctx []int, values []float64) float64 {
	if values == nil {
		return float64(len(ctx))
	}
	return floats.Sum(values)
}

func valueAt(values []float64, i int) float64 {
	if values == nil {
		return 1
	}
	return values[i]
}

// expectations computes model expectations for the current parameters and
// returns the training log-likelihood and accuracy.
func (r *run) expectations() (float64, float64) {
	for _, acc := range r.workers {
		acc.reset()
	}

	d := r.d
	c := r.params.CorrectionConstant
	parallel.ParallelizeN(d.NumUniqueEvents(), len(r.workers), func(w, start, end int) {
		acc := r.workers[w]
		for e := start; e < end; e++ {
			ctx := d.Contexts[e]
			values := d.EventValues(e)
			n := float64(d.NumTimesEventsSeen[e])
			r.params.logEval(ctx, values, acc.logProbs, acc.numfeats)
			for o, lp := range acc.logProbs {
				acc.probs[o] = math.Exp(lp)
			}

			for ci, pid := range ctx {
				v := valueAt(values, ci) * n
				pred := r.params.Params[pid]
				row := acc.expected[pid]
				for j, oid := range pred.Outcomes {
					row[j] += acc.probs[oid] * v
				}
			}
			if r.cfg.Correction {
				for o, p := range acc.probs {
					acc.expectedCorrection += n * p * (c - acc.numfeats[o])
				}
			}

			outcome := d.OutcomeList[e]
			acc.logLikelihood += n * acc.logProbs[outcome]
			if floats.MaxIdx(acc.probs) == outcome {
				acc.correct += n
			}
		}
	})

	// reduce into the first worker in worker order
	total := r.workers[0]
	for _, acc := range r.workers[1:] {
		for p, row := range acc.expected {
			floats.Add(total.expected[p], row)
		}
		total.expectedCorrection += acc.expectedCorrection
		total.logLikelihood += acc.logLikelihood
		total.correct += acc.correct
	}
	return total.logLikelihood, total.correct / r.numEvents
}

// update applies one GIS step using the expectations reduced into the first
// worker.
func (r *run) update(iteration int) error {
	expected := r.workers[0].expected
	c := r.params.CorrectionConstant
	for p, pred := range r.params.Params {
		for j := range pred.Parameters {
			obs := r.observed[p][j]
			exp := expected[p][j]
			if r.cfg.GaussianSmoothing {
				pred.Parameters[j] += c * r.gaussianDelta(pred.Parameters[j]/c, obs, exp)
			} else {
				if exp == 0 {
					errors.Warn(errors.NewZeroExpectationWarning(
						r.d.PredLabels[p], r.d.OutcomeLabels[pred.Outcomes[j]], iteration))
					continue
				}
				pred.Parameters[j] += math.Log(obs) - math.Log(exp)
			}
		}
		if err := errors.CheckNumericalStability("gis.update: "+r.d.PredLabels[p], pred.Parameters, iteration); err != nil {
			return err
		}
	}

	if r.cfg.Correction {
		expC := r.workers[0].expectedCorrection
		if r.observedCorrection > 0 && expC > 0 {
			r.params.CorrectionParam += math.Log(r.observedCorrection) - math.Log(expC)
			if err := errors.CheckScalar("gis.update: correction", r.params.CorrectionParam, iteration); err != nil {
				return err
			}
		}
	}
	return nil
}

// gaussianDelta solves exp*e^(C*delta) + (lambda+delta)/sigma^2 = obs for
// delta with Newton's method, starting at zero.
func (r *run) gaussianDelta(lambda, obs, exp float64) float64 {
	c := r.params.CorrectionConstant
	variance := r.cfg.GaussianSigma * r.cfg.GaussianSigma
	x0 := 0.0
	for i := 0; i < newtonIterations; i++ {
		tmp := exp * math.Exp(c*x0)
		f := tmp + (lambda+x0)/variance - obs
		fp := tmp*c + 1/variance
		x := x0 - f/fp
		if math.Abs(x-x0) < newtonTolerance {
			return x
		}
		x0 = x
	}
	return x0
}
