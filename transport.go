package olat

import "context"

// Handler is the shape of a registered per-operation handler. It
// receives the generic request (including its optional raw body), the
// path parameters extracted during routing, and returns a generic
// response. The context carries the platform invocation deadline when
// running on Lambda; handlers should pass it through to blocking calls.
//
// A returned error is treated as a defect, not a modeled HTTP outcome:
// the driver propagates it to the invocation boundary unmodified rather
// than converting it into a response.
type Handler func(ctx context.Context, req Request, params Params) (Response, error)

// Middleware wraps a handler for cross-cutting concerns.
type Middleware func(Handler) Handler

// Transport satisfies the server-transport contract generated OpenAPI
// dispatch code expects: a registration surface for (method, path
// template, handler) triples. It owns no socket and runs no accept
// loop; it only populates the route registry and exposes a dispatch
// entry point driven by [Driver] per inbound event.
//
// All registration must complete before the first event is driven. The
// lapp package sequences this for you; when wiring manually, finish
// every Register call before handing the transport to a driver.
type Transport struct {
	registry    *Registry
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewTransport inits a transport with an empty route registry.
func NewTransport() *Transport {
	return &Transport{registry: NewRegistry()}
}

// Use appends middleware applied to every subsequently registered
// handler. The order matches the Gorilla and Chi routers: the first
// middleware provided is the outermost wrapping. Use panics when called
// after Register, since earlier registrations would silently miss the
// new middleware.
func (t *Transport) Use(mw ...Middleware) {
	if t.middlewares.captured {
		panic("olat: cannot call Use() after calling Register")
	}

	t.middlewares.buffered = append(t.middlewares.buffered, mw...)
}

// Register stores a handler for the method and path template, wrapped
// in any middleware provided via [Transport.Use]. It fails with an
// error marked [ErrDuplicateRoute] if the pair is already taken; that
// is a configuration error and callers are expected to abort startup.
func (t *Transport) Register(method, template string, handler Handler) error {
	t.middlewares.captured = true

	return t.registry.Register(method, template, wrap(handler, t.middlewares.buffered...))
}

// MustRegister is Register for static route tables where a failure is a
// programming error.
func (t *Transport) MustRegister(method, template string, handler Handler) {
	if err := t.Register(method, template, handler); err != nil {
		panic("olat: " + err.Error())
	}
}

// Resolve finds the route for a concrete method and path. Exposed for
// the driver and for local tooling; fails with an error marked
// [ErrNoMatchingRoute] on a miss.
func (t *Transport) Resolve(method Method, path string) (*RouteMatch, error) {
	return t.registry.Resolve(method, path)
}

// Dispatch invokes the matched route's handler with the request and the
// extracted path parameters.
func (t *Transport) Dispatch(ctx context.Context, req Request, match *RouteMatch) (Response, error) {
	return match.Route.handler(ctx, req, match.Params)
}

func wrap(h Handler, mw ...Middleware) Handler {
	wrapped := h
	for i := len(mw) - 1; i >= 0; i-- {
		wrapped = mw[i](wrapped)
	}

	return wrapped
}
