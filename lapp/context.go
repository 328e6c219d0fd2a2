package lapp

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const ctxKeyLogger ctxKey = iota

// WithLogger returns a context carrying the given logger, as the app's
// logging middleware does for every dispatched handler. Use it in unit
// tests for handlers that call [Log].
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

// Log returns a trace-correlated zap logger from the context. It panics
// when no logger was installed; within the app the logging middleware
// always installs one.
func Log(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ctxKeyLogger).(*zap.Logger)
	if !ok {
		panic("lapp: logger not found in context; is the middleware configured?")
	}

	return logger.With(traceFields(ctx)...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// Lambda retrieves the platform's invocation context (request id,
// invoked function ARN) as delivered by the aws-lambda-go runtime.
// Returns nil when not running on Lambda, e.g. in local test mode.
func Lambda(ctx context.Context) *lambdacontext.LambdaContext {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		return nil
	}

	return lc
}

// traceFields extracts trace_id and span_id from the context for log
// correlation.
func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
