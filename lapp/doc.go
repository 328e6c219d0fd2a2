// Package lapp provides a batteries-included way to run an olat-hosted
// OpenAPI service on AWS Lambda.
//
// # Overview
//
// lapp handles the boilerplate around the core transport: environment
// parsing, structured logging, OpenTelemetry tracing, AWS SDK clients,
// secrets, and the startup sequencing that guarantees every route is
// registered before the first invocation is driven. A complete function
// is one call:
//
//	lapp.NewApp[Env](func(t *olat.Transport, h *Handlers) error {
//	    return t.Register("GET", "/stocks/{symbol}", h.Quote)
//	},
//	    lapp.WithAWSClient(dynamodb.NewFromConfig),
//	    lapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    lapp.BaseEnvironment
//	    QuoteTableName string `env:"QUOTE_TABLE_NAME,required"`
//	}
//
// BaseEnvironment reads the following variables:
//
//	| Variable                | Required | Default | Description                                   |
//	|-------------------------|----------|---------|-----------------------------------------------|
//	| OLAT_SERVICE_NAME       | Yes      | -       | Service name for logging and tracing          |
//	| OLAT_LOG_LEVEL          | No       | info    | Log level (debug, info, warn, error)          |
//	| OLAT_OTEL_EXPORTER      | No       | stdout  | Trace exporter: "stdout" or "xrayudp"         |
//	| OLAT_PAYLOAD_FORMAT     | No       | http    | Gateway payload shape: "rest" (1.0) or "http" (2.0) |
//	| OLAT_ERROR_STATUS_CODES | No       | 500-599 | Statuses logged at error level                |
//	| LOCAL_TEST_MODE         | No       | false   | Serve the local HTTP front end instead        |
//	| LOCAL_TEST_PORT         | No       | 7000    | Port for the local front end                  |
//	| AWS_REGION              | No       | -       | Set automatically by the Lambda runtime       |
//
// The payload format picks the event adapter once at startup; a process
// never switches shapes per request.
//
// # Startup Ordering
//
// The routing function runs as an fx invocation during construction.
// Lifecycle hooks that start consuming events (the Lambda runtime loop,
// or the local front end) only run afterwards, so registration is
// always complete before the first invocation, which is the invariant
// that allows the route registry to be read without locks.
//
// # Context
//
// Handlers receive a standard context.Context carrying the platform's
// invocation deadline. Use the package-level functions for
// request-scoped values:
//
//   - [Log] - trace-correlated zap logger
//   - [Span] - current OpenTelemetry span
//   - [Lambda] - the Lambda invocation context, nil in local test mode
//   - [RemainingTime] - time left before the invocation deadline
//
// The deadline handed to handlers ends slightly ahead of the real
// platform deadline (see [WithDeadlineBuffer]) so there is always time
// to encode an output.
//
// # Failure Reporting
//
// Handler errors propagate to the Lambda runtime as invocation
// failures, which feeds the platform's own error metrics and retry
// behavior. Responses whose status matches OLAT_ERROR_STATUS_CODES are
// additionally logged at error level, since a handler-produced 5xx is
// operationally interesting even though it is a modeled HTTP outcome.
//
// # Local Testing
//
// With LOCAL_TEST_MODE=true the process serves HTTP on LOCAL_TEST_PORT
// instead of awaiting platform invocations. Plain requests are
// synthesized into the configured gateway event shape; POST /invoke
// accepts a serialized event payload directly, mirroring what the
// platform would deliver:
//
//	curl localhost:7000/stocks/AAPL
//	curl -X POST localhost:7000/invoke -d @event.json
//
// # Testing
//
// The companion lapptest package builds the identical dependency graph
// on fxtest, sets base environment variables on the test, and offers
// helpers to invoke handlers and build gateway event payloads without a
// running app.
package lapp
