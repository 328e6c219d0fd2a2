package lapp

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// provideAWSConfig loads AWS config with a timeout and instruments it
// so SDK calls become child spans of the active invocation trace. The
// TracerProvider and Propagator are explicitly injected, no globals.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, err
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)

	return cfg, nil
}

// clientOptions holds configuration for AWS client registration.
type clientOptions struct {
	region string
}

// ClientOption configures AWS client registration.
type ClientOption func(*clientOptions)

// ForRegion pins the client to a specific region instead of the
// function's own AWS_REGION. Use it for cross-region resources such as
// queues or buckets that live in one fixed place.
func ForRegion(region string) ClientOption {
	return func(o *clientOptions) { o.region = region }
}

// AWSClientProvider creates an fx.Option providing an AWS SDK v2 client
// for injection into handler constructors. The factory receives an
// aws.Config with the region already resolved:
//
//	lapp.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	    return dynamodb.NewFromConfig(cfg)
//	})
func AWSClientProvider[T any](factory func(aws.Config) T, opts ...ClientOption) fx.Option {
	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	return fx.Provide(func(cfg aws.Config, env Environment) T {
		awsCfg := cfg.Copy()

		region := options.region
		if region == "" {
			region = env.awsRegion()
		}
		if region != "" {
			awsCfg.Region = region
		}

		return factory(awsCfg)
	})
}
