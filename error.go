package olat

import "github.com/cockroachdb/errors"

// Sentinel errors for the transport's failure taxonomy. Concrete errors
// carry more context (method, template, path) and are marked with one of
// these so callers can classify them with errors.Is.
var (
	// ErrDuplicateRoute marks registration of a (method, template) pair
	// that is already taken. This is a startup-time configuration error:
	// it aborts initialization and is never produced per-request.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrInvalidMethod marks an unrecognized HTTP method token. The
	// driver recovers it locally into a 400 response.
	ErrInvalidMethod = errors.New("invalid method")

	// ErrNoMatchingRoute marks a routing miss. The driver recovers it
	// locally into a 404 response.
	ErrNoMatchingRoute = errors.New("no matching route")

	// ErrMalformedEvent marks an inbound event that cannot be decoded
	// into the generic request shape at all. It is an invocation-level
	// failure: the event source and the configured adapter are
	// mismatched, which is a deployment defect, not an HTTP outcome.
	ErrMalformedEvent = errors.New("malformed event")
)
