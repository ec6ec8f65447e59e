package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	maxerrors "github.com/YuminosukeSato/maxent/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationTrain)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorEmptyData)

	require.NotEmpty(t, buffer.String())
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "GIS",
		ComponentKey, "gis.trainer",
	)
	contextLogger.Info("contextual message", IterationKey, 3)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "GIS"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "gis.trainer"))
	assert.True(t, testLogger.ContainsField(IterationKey, 3.0))
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestProviderSwap(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	defer SetProvider(newSlogProvider())

	GetLoggerWithName("dataindexer").Info("indexed", EventsKey, 10)

	assert.Contains(t, buffer.String(), "indexed")
	assert.True(t, provider.Logger().ContainsField(ComponentKey, "dataindexer"))

	provider.SetLevel(LevelError)
	GetLogger().Info("dropped")
	assert.NotContains(t, buffer.String(), "dropped")
}

func TestSetupLoggerJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "debug"))

	GetLoggerWithName("modelio").Error("load failed", maxerrors.New("corrupt"), PathKey, "m.bin")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "load failed", entry["message"])
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "modelio", entry[ComponentKey])
	assert.Equal(t, "m.bin", entry[PathKey])
	// ErrFmtHandler attaches the cockroachdb stack of the logged error
	assert.NotEmpty(t, entry[StacktraceAttrKey])

	assert.Error(t, SetupLoggerTo(&buf, "verbose"))
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)).With(ModelNameKey, "GIS")

	logger.Debug("hidden")
	logger.Info("iteration done", IterationKey, 5, LogLikelihoodKey, -12.5)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"training.iteration":5`)
	assert.Contains(t, out, `"model.name":"GIS"`)
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestInstallZerologWarnings(t *testing.T) {
	var buf bytes.Buffer
	InstallZerologWarnings(zerolog.New(&buf))
	defer maxerrors.SetZerologWarnFunc(nil)

	maxerrors.Warn(maxerrors.NewModelTypeWarning("GIS", "Perceptron"))

	out := buf.String()
	assert.Contains(t, out, `"type":"ModelTypeWarning"`)
	assert.Contains(t, out, `"got":"Perceptron"`)
	assert.True(t, strings.Contains(out, `"level":"warn"`))
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewZapLogger(zap.New(core)).With(ComponentKey, "gis")

	logger.Debug("hidden")
	logger.Info("trained", IterationsKey, 100)
	logger.Error("failed", fmt.Errorf("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "trained", entries[0].Message)
	assert.Equal(t, int64(100), entries[0].ContextMap()[IterationsKey])
	assert.Equal(t, "gis", entries[0].ContextMap()[ComponentKey])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const workers, perWorker = 4, 5
	done := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perWorker; j++ {
				testLogger.Info(fmt.Sprintf("worker %d message %d", id, j), "worker", id)
			}
		}(i)
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, workers*perWorker)
}
