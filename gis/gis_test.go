package gis

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/maxent/dataindexer"
	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	logger, _ := log.NewTestLogger(log.LevelError)
	cfg.Logger = logger
	return cfg
}

// weatherEvents is a small corpus where "rain" and "sun" are mostly
// predictable from the predicates.
func weatherEvents() []*event.Event {
	var events []*event.Event
	for i := 0; i < 20; i++ {
		events = append(events,
			event.New("rain", "clouds", "humid", fmt.Sprintf("day=%d", i%3)),
			event.New("sun", "clear", "dry", fmt.Sprintf("day=%d", i%4)),
			event.New("sun", "clouds", "dry"),
		)
		if i%5 == 0 {
			events = append(events, event.New("snow", "clouds", "cold"))
		}
	}
	return events
}

func indexed(t *testing.T, events []*event.Event) *dataindexer.Indexed {
	t.Helper()
	d, err := dataindexer.NewOnePass(0).Index(event.NewSliceStream(events...))
	require.NoError(t, err)
	return d
}

func train(t *testing.T, cfg Config, d *dataindexer.Indexed) *Model {
	t.Helper()
	m, err := NewTrainer(cfg).Train(d)
	require.NoError(t, err)
	return m
}

func assertDistribution(t *testing.T, probs []float64) {
	t.Helper()
	for _, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0)
	}
	assert.InDelta(t, 1.0, floats.Sum(probs), 1e-6)
}

func TestEvalParameters(t *testing.T) {
	t.Run("weights", func(t *testing.T) {
		p := NewEvalParameters([]Context{{Outcomes: []int{0, 1}, Parameters: []float64{math.Log(3), 0}}}, 0, 1, 2)
		probs := make([]float64, 2)
		p.Eval([]int{0}, nil, probs)
		assert.InDeltaSlice(t, []float64{0.75, 0.25}, probs, 1e-12)
	})

	t.Run("correction term", func(t *testing.T) {
		p := NewEvalParameters([]Context{{Outcomes: []int{0}, Parameters: []float64{0}}}, math.Ln2, 2, 2)
		probs := make([]float64, 2)
		p.Eval([]int{0}, nil, probs)
		assert.InDeltaSlice(t, []float64{math.Sqrt2 - 1, 2 - math.Sqrt2}, probs, 1e-12)
	})

	t.Run("values and unknown ids", func(t *testing.T) {
		p := NewEvalParameters([]Context{{Outcomes: []int{0}, Parameters: []float64{math.Log(2)}}}, 0, 1, 2)
		probs := make([]float64, 2)
		p.Eval([]int{-1, 0}, []float64{5, 2}, probs)
		// weight ln2 * value 2 gives odds 4:1
		assert.InDeltaSlice(t, []float64{0.8, 0.2}, probs, 1e-12)
	})

	t.Run("large weights", func(t *testing.T) {
		p := NewEvalParameters([]Context{{Outcomes: []int{0, 1}, Parameters: []float64{2000, -2000}}}, 0, 1, 3)
		probs := make([]float64, 3)
		p.Eval([]int{0}, nil, probs)
		assertDistribution(t, probs)
		assert.InDelta(t, 1.0, probs[0], 1e-12)
	})

	t.Run("derived fields", func(t *testing.T) {
		p := NewEvalParameters(nil, 0, 4, 3)
		assert.Equal(t, 0.25, p.ConstantInverse)
		assert.InDelta(t, math.Log(1.0/3), p.IProb, 1e-15)
	})
}

func TestTrainLearnsCorpus(t *testing.T) {
	d := indexed(t, weatherEvents())
	var history History
	cfg := quietConfig()
	cfg.Callbacks = []Callback{RecordHistory(&history)}
	m := train(t, cfg, d)

	assert.Equal(t, "rain", m.BestOutcome(m.Eval([]string{"clouds", "humid"})))
	assert.Equal(t, "sun", m.BestOutcome(m.Eval([]string{"clear", "dry"})))
	assert.Equal(t, "snow", m.BestOutcome(m.Eval([]string{"clouds", "cold"})))

	require.Len(t, history.LogLikelihood, cfg.Iterations)
	require.Len(t, history.Accuracy, cfg.Iterations)
	assert.Greater(t, history.LogLikelihood[cfg.Iterations-1], history.LogLikelihood[0])
	for _, ll := range history.LogLikelihood {
		assert.False(t, math.IsInf(ll, 0) || math.IsNaN(ll))
		assert.LessOrEqual(t, ll, 0.0)
	}
	assert.InDelta(t, 1.0, history.Accuracy[cfg.Iterations-1], 1e-12)
}

func TestTrainCorrectionConstant(t *testing.T) {
	d := indexed(t, []*event.Event{
		event.New("a", "x", "y", "z"),
		event.New("b", "x"),
	})
	m := train(t, quietConfig(), d)
	assert.Equal(t, 3.0, m.Parameters().CorrectionConstant)

	e1, err := event.NewWithValues("a", []string{"x", "y"}, []float64{1.5, 2.25})
	require.NoError(t, err)
	m = train(t, quietConfig(), indexed(t, []*event.Event{e1, event.New("b", "x")}))
	// real values are summed and rounded up
	assert.Equal(t, 4.0, m.Parameters().CorrectionConstant)
}

func TestTrainDistributionValidity(t *testing.T) {
	configs := map[string]func(*Config){
		"default":       func(*Config) {},
		"smoothing":     func(c *Config) { c.Smoothing = true },
		"gaussian":      func(c *Config) { c.GaussianSmoothing = true },
		"no correction": func(c *Config) { c.Correction = false },
	}
	contexts := [][]string{
		{},
		{"never-seen"},
		{"clouds"},
		{"clouds", "humid", "dry", "clear", "cold", "day=0", "day=1", "day=2"},
		{"clouds", "clouds", "clouds"},
	}

	d := indexed(t, weatherEvents())
	for name, mod := range configs {
		t.Run(name, func(t *testing.T) {
			cfg := quietConfig()
			cfg.Iterations = 30
			mod(&cfg)
			m := train(t, cfg, d)
			for _, ctx := range contexts {
				assertDistribution(t, m.Eval(ctx))
			}
		})
	}
}

func TestTrainIdempotent(t *testing.T) {
	d := indexed(t, weatherEvents())
	cfg := quietConfig()
	cfg.Iterations = 50

	a := train(t, cfg, d)
	b := train(t, cfg, d)
	assert.Equal(t, a.Parameters(), b.Parameters())
}

func TestTrainThreadsAgree(t *testing.T) {
	var events []*event.Event
	for i := 0; i < 300; i++ {
		events = append(events, event.New(
			fmt.Sprintf("o%d", i%4),
			fmt.Sprintf("f%d", i%7),
			fmt.Sprintf("g%d", (i*i)%11),
			fmt.Sprintf("h%d", i%5),
		))
	}
	d := indexed(t, events)

	cfg := quietConfig()
	cfg.Iterations = 40
	single := train(t, cfg, d).Parameters()

	cfg.Threads = 4
	multi := train(t, cfg, d).Parameters()

	assert.InDelta(t, single.CorrectionParam, multi.CorrectionParam, 1e-9)
	for p := range single.Params {
		assert.Equal(t, single.Params[p].Outcomes, multi.Params[p].Outcomes)
		assert.InDeltaSlice(t, single.Params[p].Parameters, multi.Params[p].Parameters, 1e-9)
	}
}

func TestTrainSmoothingPatterns(t *testing.T) {
	d := indexed(t, weatherEvents())
	cfg := quietConfig()
	cfg.Iterations = 5

	plain := train(t, cfg, d)
	snowOnly := plain.Parameters().Params[indexOf(plain.PredLabels(), "cold")]
	assert.Equal(t, []int{plain.Index("snow")}, snowOnly.Outcomes)

	cfg.Smoothing = true
	smoothed := train(t, cfg, d)
	for _, ctx := range smoothed.Parameters().Params {
		assert.Equal(t, []int{0, 1, 2}, ctx.Outcomes)
	}
}

func TestTrainGaussianShrinksWeights(t *testing.T) {
	d := indexed(t, weatherEvents())
	cfg := quietConfig()
	cfg.Iterations = 50
	plain := train(t, cfg, d)

	cfg.GaussianSmoothing = true
	cfg.GaussianSigma = 0.5
	smoothed := train(t, cfg, d)

	norm := func(m *Model) float64 {
		var sum float64
		for _, ctx := range m.Parameters().Params {
			sum += floats.Dot(ctx.Parameters, ctx.Parameters)
		}
		return sum
	}
	assert.Less(t, norm(smoothed), norm(plain))
}

func TestTrainInvalid(t *testing.T) {
	d := indexed(t, weatherEvents())
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"zero threads", func(c *Config) { c.Threads = 0 }},
		{"non-positive sigma", func(c *Config) { c.GaussianSmoothing = true; c.GaussianSigma = 0 }},
		{"non-positive smoothing observation", func(c *Config) { c.Smoothing = true; c.SmoothingObservation = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := quietConfig()
			tt.mod(&cfg)
			_, err := NewTrainer(cfg).Train(d)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}

	_, err := NewTrainer(quietConfig()).Train(&dataindexer.Indexed{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestTrainCallbackError(t *testing.T) {
	d := indexed(t, weatherEvents())
	cfg := quietConfig()
	calls := 0
	cfg.Callbacks = []Callback{func(env *CallbackEnv) error {
		calls++
		if env.Iteration == 3 {
			return errors.New("stop")
		}
		return nil
	}}
	_, err := NewTrainer(cfg).Train(d)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestTrainCallbackPanic(t *testing.T) {
	d := indexed(t, weatherEvents())
	cfg := quietConfig()
	cfg.Callbacks = []Callback{func(env *CallbackEnv) error {
		if env.Iteration == 2 {
			panic("callback bug")
		}
		return nil
	}}
	_, err := NewTrainer(cfg).Train(d)
	require.Error(t, err)

	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "gis.callback", panicErr.Operation)
	assert.Contains(t, err.Error(), "iteration 2")
}

func TestObservedCorrectionUsesValueSum(t *testing.T) {
	full, err := event.NewWithValues("a", []string{"x", "y"}, []float64{1, 1})
	require.NoError(t, err)
	partial, err := event.NewWithValues("b", []string{"x", "y"}, []float64{1, 0.5})
	require.NoError(t, err)
	d := indexed(t, []*event.Event{full, partial})

	r := NewTrainer(quietConfig()).newRun(d)
	assert.Equal(t, 2.0, r.params.CorrectionConstant)
	// (2 - 2) + (2 - 1.5)
	assert.InDelta(t, 0.5, r.observedCorrection, 1e-12)

	// every event is filled up to C on both sides, so the correction
	// parameter has nothing to learn
	m := train(t, quietConfig(), d)
	assert.InDelta(t, 0.0, m.Parameters().CorrectionParam, 1e-12)
	probs, err := m.EvalValues([]string{"x", "y"}, []float64{1, 0.5})
	require.NoError(t, err)
	assertDistribution(t, probs)
}

func TestLogProgress(t *testing.T) {
	d := indexed(t, weatherEvents())
	logger, _ := log.NewTestLogger(log.LevelInfo)
	cfg := quietConfig()
	cfg.Iterations = 10
	cfg.Callbacks = []Callback{LogProgress(logger, 4)}
	train(t, cfg, d)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	var iterations []float64
	for _, e := range entries {
		iterations = append(iterations, e[log.IterationKey].(float64))
	}
	assert.Equal(t, []float64{4, 8, 10}, iterations)
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
