// Package maxent trains and evaluates maximum entropy (multinomial logistic
// regression) models with Generalized Iterative Scaling.
//
// The library is the statistical core used by NLP components such as
// taggers and chunkers: they turn their input into a context of predicate
// names and ask a trained model for a probability per outcome.
//
// # Features
//
//   - GIS training with optional simple or Gaussian smoothing and a trained
//     correction parameter
//   - One-pass and two-pass event indexing with a frequency cutoff and
//     merging of duplicate events
//   - Real-valued predicates ("name=value" contexts)
//   - Text and binary model files, optionally gzip compressed
//   - Multi-threaded expectation step
//   - Structured logging through slog, zerolog or zap
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/maxent/event"
//	    "github.com/YuminosukeSato/maxent/modelio"
//	    "github.com/YuminosukeSato/maxent/training"
//	)
//
//	func main() {
//	    events, err := event.OpenFile("train.txt")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer events.Close()
//
//	    params := training.NewParameters().
//	        Set(training.IterationsParam, "100").
//	        Set(training.CutoffParam, "1")
//	    model, err := training.NewRegistry().Train(events, params)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    probs := model.Eval([]string{"verb=join", "prep=as"})
//	    fmt.Println(model.AllOutcomes(probs))
//
//	    if err := modelio.Save("model.bin.gz", model); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - event: training events and event streams
//   - index: immutable hash index from keys to dense ids
//   - dataindexer: one-pass and two-pass event indexers
//   - gis: model parameters, inference and the GIS trainer
//   - modelio: model serialization
//   - training: parameter maps, algorithm registry and Train
//   - metrics, core/model: held-out evaluation
//   - pkg/errors, pkg/log: error types and logging
//
// # Error Handling
//
// Fatal conditions are returned as errors carrying stack traces; see
// pkg/errors. Non-fatal conditions (a skipped event line, a model type
// mismatch) are reported as warnings:
//
//	errors.SetWarningHandler(func(w error) {
//	    slog.Warn("maxent", "warning", w)
//	})
package maxent
