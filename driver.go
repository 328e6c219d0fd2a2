package olat

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// EventAdapter converts between an event-source-specific payload and
// the generic message model. One adapter exists per supported payload
// shape and the active one is chosen at configuration time, never per
// request.
//
// DecodeRequest fails with an error marked [ErrMalformedEvent] when the
// payload lacks a usable method or path, and with one marked
// [ErrInvalidMethod] when the method token is present but unrecognized.
//
// EncodeRequest and DecodeResponse are the inverse pair: they exist for
// the local test front end, which synthesizes an event from a raw HTTP
// request and interprets the driver's output as an HTTP response. They
// also give tests a loss-free round trip to assert on.
type EventAdapter interface {
	DecodeRequest(payload []byte) (Request, error)
	EncodeResponse(resp Response) ([]byte, error)
	EncodeRequest(r *http.Request, body []byte) ([]byte, error)
	DecodeResponse(payload []byte) (Response, error)
}

// Driver executes one complete invocation per inbound event: decode to
// the generic request, resolve the route, dispatch the handler, encode
// the generic response back to the event source's output shape. It
// implements the aws-lambda-go Handler contract so it can be passed to
// lambda.Start directly.
//
// The driver performs no locking: the Lambda execution model drives one
// invocation at a time per process instance, and the route registry is
// frozen before the first event arrives. The local test front end may
// call Invoke concurrently, which is safe for the same reason.
type Driver struct {
	transport *Transport
	adapter   EventAdapter
	logs      Logger
}

// DriverOption configures a [Driver].
type DriverOption func(*Driver)

// WithLogger replaces the driver's logger for recovered conditions.
func WithLogger(logs Logger) DriverOption {
	return func(d *Driver) { d.logs = logs }
}

// NewDriver inits a driver for the given transport and event adapter.
func NewDriver(transport *Transport, adapter EventAdapter, opts ...DriverOption) *Driver {
	d := &Driver{
		transport: transport,
		adapter:   adapter,
		logs:      NewStdLogger(nil),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Invoke handles one inbound event payload and returns the encoded
// output payload. Its error return is the invocation-failure channel:
//
//   - a malformed event propagates, marked [ErrMalformedEvent]
//   - any error raised by the dispatched handler propagates unmodified
//
// Conditions with an HTTP-semantic meaning never surface as errors: an
// unrecognized method encodes a 400 output and a routing miss encodes a
// 404, both with empty bodies, indistinguishable on the wire from
// handler-produced responses.
func (d *Driver) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := d.adapter.DecodeRequest(payload)
	switch {
	case errors.Is(err, ErrInvalidMethod):
		d.logs.LogInvalidMethod(err)
		return d.adapter.EncodeResponse(Response{StatusCode: http.StatusBadRequest})
	case err != nil:
		return nil, err
	}

	match, err := d.transport.Resolve(req.Method, req.Path)
	if err != nil {
		d.logs.LogRoutingMiss(req.Method, req.Path)
		return d.adapter.EncodeResponse(Response{StatusCode: http.StatusNotFound})
	}

	resp, err := d.transport.Dispatch(ctx, req, match)
	if err != nil {
		return nil, err
	}

	return d.adapter.EncodeResponse(resp)
}
