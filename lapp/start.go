package lapp

import (
	"context"
	"net/http"

	"github.com/advdv/olat"
	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// startInvocationHook hands the driver its event source once the whole
// graph is constructed and every route is registered. In local test
// mode that is the local HTTP front end; otherwise the process enters
// the Lambda runtime loop and awaits platform-driven invocations.
func startInvocationHook(
	lc fx.Lifecycle,
	env Environment,
	driver *olat.Driver,
	logger *zap.Logger,
	tp trace.TracerProvider,
	prop propagation.TextMapPropagator,
) {
	if !env.localTestMode() {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				logger.Info("entering lambda runtime loop")
				go lambda.StartWithOptions(driver)
				return nil
			},
		})

		return
	}

	server := olat.NewLocalServer(driver, env.localTestPort())
	server.Handler = otelhttp.NewHandler(server.Handler, "local-front-end",
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting local test front end", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("local test front end failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping local test front end")
			return server.Shutdown(ctx)
		},
	})
}
