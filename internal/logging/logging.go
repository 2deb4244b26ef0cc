package logging

import (
	"fmt"

	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON zap logger at the given level ("debug", "info", ...).
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// TemporalLogger lets the Temporal client, workers, workflows and activities
// log through zap.
type TemporalLogger struct {
	zl *zap.Logger
}

var (
	_ log.Logger     = (*TemporalLogger)(nil)
	_ log.WithLogger = (*TemporalLogger)(nil)
)

func NewTemporalLogger(zl *zap.Logger) *TemporalLogger {
	return &TemporalLogger{zl: zl.WithOptions(zap.AddCallerSkip(1))}
}

func (l *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug(msg, fields(keyvals)...)
}

func (l *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	l.zl.Info(msg, fields(keyvals)...)
}

func (l *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn(msg, fields(keyvals)...)
}

func (l *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	l.zl.Error(msg, fields(keyvals)...)
}

func (l *TemporalLogger) With(keyvals ...interface{}) log.Logger {
	return &TemporalLogger{zl: l.zl.With(fields(keyvals)...)}
}

func fields(keyvals []interface{}) []zap.Field {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "<missing>")
	}

	out := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		out = append(out, zap.Any(key, keyvals[i+1]))
	}
	return out
}
