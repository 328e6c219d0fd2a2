// Package olat hosts generated OpenAPI server code on AWS Lambda.
//
// # Overview
//
// Generated OpenAPI dispatch code expects a server transport: something
// it can register a handler on for each operation's HTTP method and
// path template. A Lambda function has no listening socket to offer it;
// it receives one pre-parsed event per invocation and must return one
// structured output value. olat reconciles the two models without
// changing the contract the generated code depends on:
//
//   - [Transport] is the registration surface: it stores handlers in a
//     route registry and never opens a socket
//   - [Driver] executes one invocation per inbound event, converting
//     between the event payload and the generic message model
//   - [GatewayV1Adapter] and [GatewayV2Adapter] are the supported event
//     payload shapes (API Gateway payload format 1.0 and 2.0)
//   - [NewLocalServer] is a development-only HTTP front end that
//     synthesizes events from raw HTTP requests
//
// A minimal wiring:
//
//	transport := olat.NewTransport()
//	transport.MustRegister("GET", "/stocks/{symbol}", quoteHandler)
//
//	lambda.Start(olat.NewDriver(transport, olat.GatewayV2Adapter{}))
//
// For env-driven configuration, logging, tracing and dependency
// injection use the lapp sub-package instead of wiring by hand.
//
// # Message Model
//
// [Request] and [Response] are the common currency between the
// generated code and any event-source representation: method, scheme,
// authority, raw path, an ordered [Header] that preserves duplicate
// fields, and an optional opaque body. Construction validates only the
// method token; everything else passes through for the generated code
// to interpret, including percent-encoded path segments.
//
// # Routing
//
// Path templates are /-separated sequences of literal segments and
// {name} parameter segments. Matching requires equal segment counts and
// byte-equal literals; a parameter binds any single non-empty segment.
// Trailing slashes are significant and there are no wildcards.
// Registering the same (method, template) twice fails at startup with
// [ErrDuplicateRoute]; overlapping-but-distinct templates resolve
// first-registered-wins.
//
// # Registration Before Invocation
//
// The registry is written during process initialization and only read
// afterwards, which is what makes lock-free resolution safe. Finish all
// Register calls before handing the driver to the Lambda runtime; the
// lapp package's lifecycle sequencing guarantees this ordering.
//
// # Failure Channels
//
// Conditions with HTTP-semantic meaning become ordinary responses: an
// unrecognized method token encodes a 400 output, a routing miss a 404.
// Everything else is an invocation failure visible to the platform: a
// payload that cannot be decoded at all ([ErrMalformedEvent]) and any
// error returned by a dispatched handler both propagate out of
// [Driver.Invoke] unmodified, so platform-side retry and error metrics
// see defects as defects rather than as 5xx responses.
//
// # Local Testing
//
// With LOCAL_TEST_MODE enabled (see lapp) the process serves HTTP on a
// local port instead of awaiting platform invocations. Plain requests
// are synthesized into the configured event shape; POST /invoke accepts
// a serialized event payload directly. Either way the request travels
// the exact code path a deployed invocation would.
package olat
