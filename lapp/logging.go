package lapp

import (
	"github.com/advdv/olat"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment. Uses
// JSON encoding suitable for CloudWatch; OLAT_LOG_LEVEL controls the
// level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// zapDriverLogger bridges the driver's logger interface onto zap for
// the conditions the driver recovers by itself.
type zapDriverLogger struct{ *zap.Logger }

func (l zapDriverLogger) LogRoutingMiss(method olat.Method, path string) {
	l.Logger.Warn("no matching route",
		zap.String("method", string(method)), zap.String("path", path))
}

func (l zapDriverLogger) LogInvalidMethod(err error) {
	l.Logger.Warn("invalid method token", zap.Error(err))
}

func newZapDriverLogger(l *zap.Logger) olat.Logger {
	return zapDriverLogger{l.Named("olat").Named("driver")}
}
