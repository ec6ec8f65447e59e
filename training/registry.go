package training

import (
	"sort"
	"strings"
	"sync"

	"github.com/YuminosukeSato/maxent/event"
	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/YuminosukeSato/maxent/pkg/log"
)

// TrainerFunc trains a model from an event stream. logger is tagged with
// the run id.
type TrainerFunc func(s event.Stream, p *Parameters, logger log.Logger) (*gis.Model, error)

// Registry maps algorithm tags to trainers. Build one with NewRegistry and
// pass it to the code that trains models.
type Registry struct {
	mu       sync.RWMutex
	trainers map[string]TrainerFunc
}

// NewRegistry returns a registry with the built-in algorithms registered:
// MAXENT and GIS train with GIS, PERCEPTRON is recognised but returns
// errors.ErrNotImplemented.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.mustRegister(AlgorithmMaxent, TrainGIS)
	r.mustRegister(AlgorithmGIS, TrainGIS)
	r.mustRegister(AlgorithmPerceptron, trainPerceptron)
	return r
}

// NewEmptyRegistry returns a registry without any algorithm.
func NewEmptyRegistry() *Registry {
	return &Registry{trainers: make(map[string]TrainerFunc)}
}

// Register adds a trainer under tag. Tags are case-insensitive and may be
// registered once.
func (r *Registry) Register(tag string, fn TrainerFunc) error {
	if fn == nil {
		return errors.NewValueError("training.Register", "trainer is nil")
	}
	key := strings.ToUpper(tag)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trainers[key]; ok {
		return errors.Newf("training: algorithm %s already registered", key)
	}
	r.trainers[key] = fn
	return nil
}

func (r *Registry) mustRegister(tag string, fn TrainerFunc) {
	if err := r.Register(tag, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the trainer registered under tag.
func (r *Registry) Lookup(tag string) (TrainerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.trainers[strings.ToUpper(tag)]
	if !ok {
		return nil, errors.NewValidationError(AlgorithmParam, "no trainer registered", tag)
	}
	return fn, nil
}

// Algorithms returns the registered tags in sorted order.
func (r *Registry) Algorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.trainers))
	for t := range r.trainers {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func trainPerceptron(event.Stream, *Parameters, log.Logger) (*gis.Model, error) {
	return nil, errors.Wrap(errors.ErrNotImplemented, "perceptron training")
}
