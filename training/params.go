// Package training wires event streams, indexers and trainers together
// behind a string keyed parameter map.
package training

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/maxent/dataindexer"
	"github.com/YuminosukeSato/maxent/gis"
	"github.com/YuminosukeSato/maxent/pkg/errors"
)

// Parameter keys. Keys are matched case-insensitively.
const (
	AlgorithmParam            = "Algorithm"
	IterationsParam           = "Iterations"
	CutoffParam               = "Cutoff"
	ThreadsParam              = "Threads"
	DataIndexerParam          = "DataIndexer"
	SmoothingParam            = "Smoothing"
	SmoothingObservationParam = "SmoothingObservation"
	GaussianSmoothingParam    = "GaussianSmoothing"
	GaussianSigmaParam        = "GaussianSmoothingSigma"
	CorrectionParam           = "CorrectionParameter"
	ParamsFileParam           = "PARAMS_FILE"
)

// Algorithm tags.
const (
	AlgorithmMaxent     = "MAXENT"
	AlgorithmGIS        = "GIS"
	AlgorithmPerceptron = "PERCEPTRON"
)

const (
	DefaultAlgorithm   = AlgorithmMaxent
	DefaultCutoff      = 5
	DefaultDataIndexer = dataindexer.KindTwoPass
)

// Parameters is a case-insensitive string map of training options. Typed
// getters fall back to the defaults when a key is absent.
type Parameters struct {
	values map[string]string
}

// NewParameters creates an empty parameter map.
func NewParameters() *Parameters {
	return &Parameters{values: make(map[string]string)}
}

// ParametersFrom creates a parameter map from m.
func ParametersFrom(m map[string]string) *Parameters {
	p := NewParameters()
	for k, v := range m {
		p.Set(k, v)
	}
	return p
}

// Set stores value under key.
func (p *Parameters) Set(key, value string) *Parameters {
	p.values[strings.ToLower(key)] = strings.TrimSpace(value)
	return p
}

// Get returns the raw value of key.
func (p *Parameters) Get(key string) (string, bool) {
	v, ok := p.values[strings.ToLower(key)]
	return v, ok
}

// Keys returns the stored keys, lower-cased and sorted.
func (p *Parameters) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies every value of other into p, overriding existing keys.
func (p *Parameters) Merge(other *Parameters) {
	for k, v := range other.values {
		p.values[k] = v
	}
}

// Algorithm returns the upper-cased algorithm tag.
func (p *Parameters) Algorithm() string {
	if v, ok := p.Get(AlgorithmParam); ok && v != "" {
		return strings.ToUpper(v)
	}
	return DefaultAlgorithm
}

// Iterations returns the number of training iterations.
func (p *Parameters) Iterations() (int, error) {
	return p.intValue(IterationsParam, gis.DefaultIterations)
}

// Cutoff returns the predicate frequency cutoff.
func (p *Parameters) Cutoff() (int, error) {
	return p.intValue(CutoffParam, DefaultCutoff)
}

// Threads returns the number of training goroutines.
func (p *Parameters) Threads() (int, error) {
	return p.intValue(ThreadsParam, 1)
}

// DataIndexer returns the indexer kind.
func (p *Parameters) DataIndexer() (dataindexer.Kind, error) {
	v, ok := p.Get(DataIndexerParam)
	if !ok || v == "" {
		return DefaultDataIndexer, nil
	}
	switch strings.ToLower(v) {
	case strings.ToLower(string(dataindexer.KindOnePass)):
		return dataindexer.KindOnePass, nil
	case strings.ToLower(string(dataindexer.KindTwoPass)):
		return dataindexer.KindTwoPass, nil
	}
	return "", errors.NewValidationError(DataIndexerParam, "must be OnePass or TwoPass", v)
}

// GISConfig builds a GIS training configuration from the parameters.
func (p *Parameters) GISConfig() (gis.Config, error) {
	cfg := gis.DefaultConfig()
	var err error
	if cfg.Iterations, err = p.Iterations(); err != nil {
		return cfg, err
	}
	if cfg.Threads, err = p.Threads(); err != nil {
		return cfg, err
	}
	if cfg.Smoothing, err = p.boolValue(SmoothingParam, false); err != nil {
		return cfg, err
	}
	if cfg.SmoothingObservation, err = p.floatValue(SmoothingObservationParam, gis.DefaultSmoothingObservation); err != nil {
		return cfg, err
	}
	if cfg.GaussianSmoothing, err = p.boolValue(GaussianSmoothingParam, false); err != nil {
		return cfg, err
	}
	if cfg.GaussianSigma, err = p.floatValue(GaussianSigmaParam, gis.DefaultGaussianSigma); err != nil {
		return cfg, err
	}
	if cfg.Correction, err = p.boolValue(CorrectionParam, true); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every recognised parameter. The algorithm tag is checked
// against a Registry when training starts.
func (p *Parameters) Validate() error {
	cutoff, err := p.Cutoff()
	if err != nil {
		return err
	}
	if cutoff < 0 {
		return errors.NewValidationError(CutoffParam, "must not be negative", cutoff)
	}
	if _, err := p.DataIndexer(); err != nil {
		return err
	}
	cfg, err := p.GISConfig()
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func (p *Parameters) intValue(key string, def int) (int, error) {
	v, ok := p.Get(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.NewValidationError(key, "must be an integer", v)
	}
	return n, nil
}

func (p *Parameters) floatValue(key string, def float64) (float64, error) {
	v, ok := p.Get(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.NewValidationError(key, "must be a number", v)
	}
	return f, nil
}

func (p *Parameters) boolValue(key string, def bool) (bool, error) {
	v, ok := p.Get(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.NewValidationError(key, "must be true or false", v)
	}
	return b, nil
}

// LoadParamsFile reads parameters from path. Files ending in ".yaml" or
// ".yml" hold a flat YAML mapping; anything else holds "key=value" lines
// with "#" comments.
func LoadParamsFile(path string) (*Parameters, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return loadYAML(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open params file %s", path)
	}
	defer f.Close()

	p := NewParameters()
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, value, ok := strings.Cut(text, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.NewValidationError(ParamsFileParam,
				fmt.Sprintf("%s:%d: expected key=value", path, line), text)
		}
		p.Set(strings.TrimSpace(key), value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read params file %s", path)
	}
	return p, nil
}

func loadYAML(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read params file %s", path)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse params file %s", path)
	}

	p := NewParameters()
	for k, v := range raw {
		switch v.(type) {
		case map[interface{}]interface{}, []interface{}:
			return nil, errors.NewValidationError(k, "nested values are not supported in "+path, v)
		case nil:
			p.Set(k, "")
		default:
			p.Set(k, fmt.Sprint(v))
		}
	}
	return p, nil
}
