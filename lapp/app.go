package lapp

import (
	"context"
	"net/http"

	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/advdv/olat"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection, typically providers
// for handler structs and their collaborators.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithAWSClient registers an AWS SDK v2 client for injection into
// handler constructors:
//
//	lapp.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	    return dynamodb.NewFromConfig(cfg)
//	})
//
// Clients target the function's own AWS_REGION unless pinned with
// [ForRegion].
func WithAWSClient[T any](factory func(aws.Config) T, opts ...ClientOption) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, AWSClientProvider(factory, opts...))
	}
}

// runtimeProviderParams holds dependencies for Runtime.
type runtimeProviderParams[E Environment] struct {
	fx.In

	Env          E
	SecretReader SecretReader
	Transport    http.RoundTripper
}

// FxOptions assembles the full dependency graph for an app. Exported so
// the lapptest package can build the identical graph on fxtest.
//
// The registration routine runs as an fx invocation, which completes
// during construction, strictly before the lifecycle hooks that start
// accepting invocations. That ordering is what makes the lock-free
// route registry reads safe.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := append([]fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(provideAWSConfig),
		fx.Provide(func(cfg aws.Config) (SecretReader, error) {
			return NewSecretsManagerReader(cfg)
		}),
		fx.Provide(NewHTTPTransport),
		fx.Provide(NewHTTPClient),
		fx.Provide(newTransport),
		fx.Provide(newEventAdapter),
		fx.Provide(newDriver),
		fx.Provide(func(p runtimeProviderParams[E]) *Runtime[E] {
			return NewRuntime(p.Env, RuntimeParams{
				SecretReader: p.SecretReader,
				Transport:    p.Transport,
			})
		}),
		fx.Invoke(routing),
		fx.Invoke(startInvocationHook),
	}, cfg.FxOptions...)

	return baseOpts
}

// NewApp creates a batteries-included app. The routing function can
// request any provided type; at minimum it should accept
// *olat.Transport for registration:
//
//	lapp.NewApp[Env](func(t *olat.Transport, h *Handlers) error {
//	    if err := t.Register("GET", "/stocks/{symbol}", h.Quote); err != nil {
//	        return err
//	    }
//	    return t.Register("POST", "/stocks/{symbol}/orders", h.PlaceOrder)
//	},
//	    lapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// A registration error (such as a duplicate route) fails app startup.
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{app: fx.New(FxOptions[E](routing, opts...)...)}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context and blocks until
// the context is cancelled, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}

// newTransport builds the transport with the app's middleware stack
// installed before any route can be registered. Logging is outermost so
// the tracing and status middleware find a logger on the context.
func newTransport(
	env Environment,
	logger *zap.Logger,
	tp trace.TracerProvider,
	prop propagation.TextMapPropagator,
) *olat.Transport {
	// validated during ParseEnv
	expr := lo.Must(intervals.ParseExpression(env.errorStatusCodes()))

	transport := olat.NewTransport()
	transport.Use(
		withLogging(logger),
		withTracing(tp, prop, env.serviceName()),
		WithDeadlineBuffer(DefaultDeadlineBuffer),
		withErrorStatusLogging(expr),
	)

	return transport
}

// newEventAdapter selects the event payload shape once, at
// configuration time.
func newEventAdapter(env Environment) olat.EventAdapter {
	if env.payloadFormat() == PayloadFormatREST {
		return olat.GatewayV1Adapter{}
	}

	return olat.GatewayV2Adapter{}
}

func newDriver(transport *olat.Transport, adapter olat.EventAdapter, logger *zap.Logger) *olat.Driver {
	return olat.NewDriver(transport, adapter, olat.WithLogger(newZapDriverLogger(logger)))
}
