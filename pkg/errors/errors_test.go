package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Train",
			kind:    "indexing failed",
			err:     fmt.Errorf("test error"),
			wantMsg: "maxent: Train: indexing failed: test error",
		},
		{
			name:    "without original error",
			op:      "Eval",
			kind:    "no outcomes",
			err:     nil,
			wantMsg: "maxent: Eval: no outcomes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("EvalValues", 3, 2)

	want := "maxent: EvalValues: length mismatch. Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewInputError(t *testing.T) {
	err := NewInputError(7, "weight=-1", "negative values are not allowed")

	want := `maxent: invalid event input at line 7: negative values are not allowed: "weight=-1"`
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var inputErr *InputError
	if !As(err, &inputErr) {
		t.Error("Error should be castable to *InputError")
	}
}

func TestFormatErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewFormatError("ReadModel", "outcome labels", cause)

	if !Is(err, cause) {
		t.Error("FormatError should unwrap to its cause")
	}
	var formatErr *FormatError
	if !As(err, &formatErr) {
		t.Fatal("Error should be castable to *FormatError")
	}
	if formatErr.Field != "outcome labels" {
		t.Errorf("Field = %q", formatErr.Field)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Iterations", "must be positive", 0)

	want := "maxent: validation failed for parameter 'Iterations': must be positive (got: 0)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrEmptyData, "index events")
	if !Is(err, ErrEmptyData) {
		t.Error("wrapped error should match ErrEmptyData")
	}
	if !strings.Contains(err.Error(), "index events") {
		t.Errorf("message lost: %v", err)
	}
}

func TestWarnHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewModelTypeWarning("GIS", "Perceptron"))
	Warn(NewMalformedEventWarning(3, "", "empty line"))

	if len(got) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(got))
	}
	var typeWarn *ModelTypeWarning
	if !As(got[0], &typeWarn) || typeWarn.Got != "Perceptron" {
		t.Errorf("unexpected first warning: %v", got[0])
	}
}

func TestWarnZerologTakesPrecedence(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	handlerCalled := false
	SetWarningHandler(func(w error) { handlerCalled = true })
	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().EmbedObject(m).Msg(w.Error())
			return
		}
		zl.Warn().Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewZeroExpectationWarning("prev=the", "NN", 4))

	if handlerCalled {
		t.Error("plain handler must not run while a zerolog sink is installed")
	}
	out := buf.String()
	for _, want := range []string{`"predicate":"prev=the"`, `"outcome":"NN"`, `"type":"ZeroExpectationWarning"`} {
		if !strings.Contains(out, want) {
			t.Errorf("zerolog output %q missing %s", out, want)
		}
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("update", []float64{0, 1.5, -2}, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckNumericalStability("update", []float64{0, math.NaN(), math.Inf(1)}, 9)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 9 || len(numErr.Values) != 2 {
		t.Errorf("unexpected fields: %+v", numErr)
	}
	if err := CheckScalar("correction", math.Inf(-1), 2); err == nil {
		t.Error("expected error for -Inf")
	}
}

func TestLogSumExp(t *testing.T) {
	got := LogSumExp([]float64{1000, 1000})
	want := 1000 + math.Log(2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogSumExp = %v, want %v", got, want)
	}
	if !math.IsInf(LogSumExp(nil), -1) {
		t.Error("LogSumExp(nil) should be -Inf")
	}
}
