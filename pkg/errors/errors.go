// Package errors provides the error and warning types shared by every package
// of the maxent toolkit.
//
// Fatal conditions are returned as values carrying a stack trace
// (github.com/cockroachdb/errors). Non-fatal conditions such as a skipped
// event line or a model-type marker mismatch are reported through Warn, which
// forwards them to a replaceable handler.
package errors

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		slog.Warn("maxent warning", slog.String("warning", w.Error()))
	}
	// set by pkg/log to avoid an import cycle
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the handler that receives every warning raised
// by the toolkit and returns the previous one.
//
// Example:
//
//	prev := errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
//	defer errors.SetWarningHandler(prev)
func SetWarningHandler(handler func(w error)) func(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	prev := warningHandler
	warningHandler = handler
	return prev
}

// SetZerologWarnFunc installs a zerolog based warning sink. It takes
// precedence over the handler set with SetWarningHandler. Passing nil
// removes it.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a non-fatal warning.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// ModelTypeWarning is raised when a serialized model starts with a type
// marker other than the one the reader expects. Loading continues.
type ModelTypeWarning struct {
	Expected string
	Got      string
}

func (w *ModelTypeWarning) Error() string {
	return fmt.Sprintf("model type marker %q does not match expected %q, loading anyway", w.Got, w.Expected)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ModelTypeWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("expected", w.Expected).
		Str("got", w.Got).
		Str("type", "ModelTypeWarning")
}

// NewModelTypeWarning creates a ModelTypeWarning.
func NewModelTypeWarning(expected, got string) *ModelTypeWarning {
	return &ModelTypeWarning{Expected: expected, Got: got}
}

// MalformedEventWarning is raised when an event line cannot be parsed and is
// skipped.
type MalformedEventWarning struct {
	Line   int
	Text   string
	Reason string
}

func (w *MalformedEventWarning) Error() string {
	return fmt.Sprintf("skipping malformed event at line %d (%s): %q", w.Line, w.Reason, w.Text)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *MalformedEventWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("line", w.Line).
		Str("text", w.Text).
		Str("reason", w.Reason).
		Str("type", "MalformedEventWarning")
}

// NewMalformedEventWarning creates a MalformedEventWarning.
func NewMalformedEventWarning(line int, text, reason string) *MalformedEventWarning {
	return &MalformedEventWarning{Line: line, Text: text, Reason: reason}
}

// ValueParseWarning is raised when the suffix of a name=value context cannot
// be parsed as a number. The context keeps its full text and weight 1.
type ValueParseWarning struct {
	Context string
}

func (w *ValueParseWarning) Error() string {
	return fmt.Sprintf("unable to determine value in context %q, using 1.0", w.Context)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ValueParseWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("context", w.Context).
		Str("type", "ValueParseWarning")
}

// NewValueParseWarning creates a ValueParseWarning.
func NewValueParseWarning(context string) *ValueParseWarning {
	return &ValueParseWarning{Context: context}
}

// ZeroExpectationWarning is raised by GIS when the model expectation of an
// observed feature is zero, which would make the update undefined.
type ZeroExpectationWarning struct {
	Predicate string
	Outcome   string
	Iteration int
}

func (w *ZeroExpectationWarning) Error() string {
	return fmt.Sprintf("model expectation is zero for predicate %q and outcome %q at iteration %d", w.Predicate, w.Outcome, w.Iteration)
}

// MarshalZerologObject adds the warning fields to a zerolog event.
func (w *ZeroExpectationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("predicate", w.Predicate).
		Str("outcome", w.Outcome).
		Int("iteration", w.Iteration).
		Str("type", "ZeroExpectationWarning")
}

// NewZeroExpectationWarning creates a ZeroExpectationWarning.
func NewZeroExpectationWarning(predicate, outcome string, iteration int) *ZeroExpectationWarning {
	return &ZeroExpectationWarning{Predicate: predicate, Outcome: outcome, Iteration: iteration}
}

// ===========================================================================
//
//	Structured errors
//
// ===========================================================================

// DimensionError reports two parallel inputs of different length.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("maxent: %s: length mismatch. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got})
}

// ValidationError reports a configuration value outside its allowed range.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("maxent: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError reports an invalid call argument.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("maxent: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// InputError reports an event that violates a documented precondition, such
// as a negative feature value. It aborts the stream.
type InputError struct {
	Line    int
	Context string
	Reason  string
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("maxent: invalid event input at line %d: %s: %q", e.Line, e.Reason, e.Context)
	}
	return fmt.Sprintf("maxent: invalid event input: %s: %q", e.Reason, e.Context)
}

// MarshalZerologObject adds the error fields to a zerolog event.
func (e *InputError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("line", e.Line).
		Str("context", e.Context).
		Str("reason", e.Reason).
		Str("type", "InputError")
}

// NewInputError creates an InputError with a stack trace.
func NewInputError(line int, context, reason string) error {
	return errors.WithStack(&InputError{Line: line, Context: context, Reason: reason})
}

// FormatError reports a serialized model that could not be encoded or
// decoded, such as a truncated or structurally corrupt stream.
type FormatError struct {
	Op    string
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("maxent: model %s failed at %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("maxent: model %s failed at %s", e.Op, e.Field)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError with a stack trace.
func NewFormatError(op, field string, err error) error {
	return errors.WithStack(&FormatError{Op: op, Field: field, Err: err})
}

// ModelError is a general failure of a training or model operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("maxent: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("maxent: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError reports NaN or Inf values produced during
// training.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("maxent: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace.
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	})
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Sentinels
//
// ===========================================================================

var (
	// ErrNotImplemented is returned for registered but unsupported features.
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData is returned when no events, or no predicates after the
	// cutoff, are left to train on.
	ErrEmptyData = New("empty data")

	// ErrResetNotSupported is returned by single-pass event streams.
	ErrResetNotSupported = New("reset not supported by this stream")
)
