package olat

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Registry maps (method, path template) pairs to handlers and resolves
// concrete request paths against them.
//
// The lifecycle contract is create-at-startup, read-many-afterwards:
// all Register calls happen during process initialization, before the
// first invocation is driven. Registration is mutex-guarded so that
// concurrent init code cannot tear the route list; Resolve reads
// without locking because the registry is effectively frozen once
// invocations begin.
type Registry struct {
	mu     sync.Mutex
	routes []*Route
	keys   map[RouteKey]struct{}
}

// NewRegistry inits an empty registry.
func NewRegistry() *Registry {
	return &Registry{keys: map[RouteKey]struct{}{}}
}

// Register adds a handler for the given method token and path template.
// It fails with an error marked [ErrInvalidMethod] for an unrecognized
// method, with a template parse error for a malformed template, and
// with an error marked [ErrDuplicateRoute] when the exact (method,
// template) pair was already registered.
func (r *Registry) Register(method, template string, handler Handler) error {
	m, err := ParseMethod(method)
	if err != nil {
		return err
	}

	segs, err := parseTemplate(template)
	if err != nil {
		return errors.Wrap(err, "parse template")
	}

	if handler == nil {
		return errors.Newf("nil handler for %s %s", method, template)
	}

	key := RouteKey{Method: m, Template: template}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key]; exists {
		return errors.Mark(errors.Newf("route already registered: %s %s", method, template), ErrDuplicateRoute)
	}

	r.keys[key] = struct{}{}
	r.routes = append(r.routes, &Route{Key: key, segments: segs, handler: handler})

	return nil
}

// Resolve finds the registered route matching the concrete method and
// path and returns it with the extracted parameter bindings. It fails
// with an error marked [ErrNoMatchingRoute] when no route fits.
//
// Routes are tried in registration order and the first full match wins.
// Duplicate keys are rejected at registration time so at most one route
// is expected to match; for structurally overlapping templates (a
// literal versus a parameter in the same position) first-registered-wins
// is the documented policy, not accidental behavior.
func (r *Registry) Resolve(method Method, path string) (*RouteMatch, error) {
	for _, route := range r.routes {
		if route.Key.Method != method {
			continue
		}

		if params, ok := route.match(path); ok {
			return &RouteMatch{Route: route, Params: params}, nil
		}
	}

	return nil, errors.Mark(
		errors.Newf("no route for %s %s, registered: %v", method, path, lo.Map(r.routes,
			func(route *Route, _ int) RouteKey { return route.Key })),
		ErrNoMatchingRoute)
}
