package lapp

import (
	"context"

	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/advdv/olat"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// withLogging installs the request logger into the handler context and
// writes one entry per dispatch.
func withLogging(logger *zap.Logger) olat.Middleware {
	return func(next olat.Handler) olat.Handler {
		return func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
			ctx = WithLogger(ctx, logger)

			resp, err := next(ctx, req, params)
			if err != nil {
				Log(ctx).Error("handler failed",
					zap.String("method", string(req.Method)),
					zap.String("path", req.Path),
					zap.Error(err))

				return resp, err
			}

			Log(ctx).Info("handled",
				zap.String("method", string(req.Method)),
				zap.String("path", req.Path),
				zap.Int("status", resp.StatusCode))

			return resp, nil
		}
	}
}

// withTracing opens one span per dispatched handler, continuing any
// trace context propagated in the event's headers. The provider and
// propagator are injected explicitly (no globals).
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, service string) olat.Middleware {
	tracer := tp.Tracer(service)

	return func(next olat.Handler) olat.Handler {
		return func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
			ctx = prop.Extract(ctx, headerCarrier(req.Header))

			ctx, span := tracer.Start(ctx, string(req.Method)+" "+req.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", string(req.Method)),
					attribute.String("url.path", req.Path),
				))
			defer span.End()

			resp, err := next(ctx, req, params)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				return resp, err
			}

			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

			return resp, nil
		}
	}
}

// withErrorStatusLogging logs responses whose status falls in the
// configured interval set at error level. Handlers produce these
// normally, but a 5xx still deserves an error-level trail in
// CloudWatch even though it is not an invocation failure.
func withErrorStatusLogging(expr intervals.Expression) olat.Middleware {
	return func(next olat.Handler) olat.Handler {
		return func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
			resp, err := next(ctx, req, params)
			if err == nil && expr.Matches(resp.StatusCode) {
				Log(ctx).Error("handler returned error status",
					zap.String("method", string(req.Method)),
					zap.String("path", req.Path),
					zap.Int("status", resp.StatusCode))
			}

			return resp, err
		}
	}
}

// headerCarrier adapts the ordered header to the propagation carrier
// contract for trace context extraction.
type headerCarrier olat.Header

func (c headerCarrier) Get(key string) string { return olat.Header(c).Get(key) }

func (c headerCarrier) Set(key, value string) {
	// extraction-only carrier: inbound event headers are never mutated
}

func (c headerCarrier) Keys() []string {
	return lo.Uniq(lo.Map(c, func(f olat.Field, _ int) string { return f.Name }))
}
