package lapp

import (
	"context"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
)

// Runtime provides access to app-scoped dependencies. Inject it into
// handler constructors via fx instead of pulling values from context:
//
//	type Handlers struct {
//	    rt *lapp.Runtime[Env]
//	}
//
//	func NewHandlers(rt *lapp.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) Quote(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
//	    env := h.rt.Env()
//	    key, err := h.rt.Secret(ctx, "quote-api-key")
//	    // ...
//	}
type Runtime[E Environment] struct {
	env          E
	secretReader SecretReader
	transport    http.RoundTripper
}

// RuntimeParams holds optional dependencies for Runtime.
type RuntimeParams struct {
	SecretReader SecretReader
	Transport    http.RoundTripper
}

// NewRuntime creates a Runtime with the given dependencies.
func NewRuntime[E Environment](env E, params RuntimeParams) *Runtime[E] {
	return &Runtime[E]{
		env:          env,
		secretReader: params.SecretReader,
		transport:    params.Transport,
	}
}

// Env returns the typed environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Secret retrieves a secret value from AWS Secrets Manager. With a
// jsonPath argument the secret is parsed as JSON and the path extracted
// in gjson syntax; without one the raw secret string is returned.
func (r *Runtime[E]) Secret(ctx context.Context, secretID string, jsonPath ...string) (string, error) {
	if r.secretReader == nil {
		return "", errors.New("lapp: secret reader not configured")
	}

	return secretFromReader(ctx, r.secretReader, secretID, jsonPath...)
}

// NewRequest returns a fresh outbound request builder wired to the
// instrumented transport.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	b := newRequestBuilder(r.transport)
	return b
}
