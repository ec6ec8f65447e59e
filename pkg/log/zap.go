package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	l *zap.SugaredLogger
}

// NewZapLogger adapts a *zap.Logger to Logger.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l: l.Sugar()}
}

func (z *zapLogger) Debug(msg string, fields ...any) { z.l.Debugw(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...any)  { z.l.Infow(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...any)  { z.l.Warnw(msg, fields...) }

func (z *zapLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{zap.Error(err)}, fields[1:]...)
		}
	}
	z.l.Errorw(msg, fields...)
}

func (z *zapLogger) With(fields ...any) Logger {
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Enabled(ctx context.Context, level Level) bool {
	return z.l.Desugar().Core().Enabled(toZapLevel(level))
}

func toZapLevel(level Level) zapcore.Level {
	switch {
	case level <= LevelDebug:
		return zapcore.DebugLevel
	case level <= LevelInfo:
		return zapcore.InfoLevel
	case level <= LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
