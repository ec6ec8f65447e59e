package log

// Model and operation context.
const (
	// ModelNameKey identifies the model family, e.g. "GIS".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one training run.
	EstimatorIDKey = "estimator.id"

	// OperationKey names the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey names the package or component logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates training, inference or indexing.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// EventsKey is the number of events read from a stream.
	EventsKey = "data.events"

	// UniqueEventsKey is the number of distinct events after merging.
	UniqueEventsKey = "data.unique_events"

	// PredicatesKey is the number of predicates kept after the cutoff.
	PredicatesKey = "data.predicates"

	// OutcomesKey is the number of outcomes.
	OutcomesKey = "data.outcomes"

	// CutoffKey is the predicate frequency cutoff.
	CutoffKey = "data.cutoff"

	// PathKey is a file path being read or written.
	PathKey = "data.path"

	// FormatKey is a serialization format name.
	FormatKey = "data.format"
)

// Training progress.
const (
	DurationMsKey      = "perf.duration_ms"
	IterationKey       = "training.iteration"
	IterationsKey      = "training.iterations"
	ThreadsKey         = "training.threads"
	LogLikelihoodKey   = "metrics.loglikelihood"
	AccuracyKey        = "metrics.accuracy"
	CorrectionConstKey = "gis.correction_constant"
	CorrectionParamKey = "gis.correction_param"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationIndex = "index"
	OperationTrain = "train"
	OperationEval  = "eval"
	OperationSave  = "save"
	OperationLoad  = "load"

	PhaseIndexing  = "indexing"
	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorEmptyData    = "EMPTY_DATA"
	ErrorInvalidInput = "INVALID_INPUT"
	ErrorCorruptModel = "CORRUPT_MODEL"
)
