package olat

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultLocalPort is the port the local test front end listens on when
// no explicit port is configured.
const DefaultLocalPort = 7000

// InvokePath accepts a serialized gateway event payload directly,
// mirroring the shape the platform would deliver. Any other path is
// synthesized into an event from the raw HTTP request.
const InvokePath = "/invoke"

// NewLocalHandler builds the HTTP handler for the local test front end.
// It exists so a developer can exercise the full decode, route and
// dispatch path without a deployed event source: every request is
// turned into an event payload, fed through the driver exactly as a
// platform invocation would be, and the driver's output is written back
// as a plain HTTP response.
//
// Two request modes are supported:
//
//   - POST /invoke with a JSON gateway event body passes the payload to
//     the driver as-is
//   - any other request is converted to an event via the adapter's
//     EncodeRequest
//
// Driver invocation failures (malformed events, handler errors) surface
// as a 500 with a plain-text error rather than an encoded gateway
// response, keeping the two failure channels distinguishable during
// development.
func NewLocalHandler(d *Driver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(body) == 0 {
			body = nil
		}

		payload := body
		if r.Method == http.MethodPost && r.URL.Path == InvokePath {
			if !looksLikeGatewayEvent(payload) {
				http.Error(w, "request body is not a gateway event payload", http.StatusBadRequest)
				return
			}
		} else {
			payload, err = d.adapter.EncodeRequest(r, body)
			if err != nil {
				http.Error(w, "synthesize event: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		out, err := d.Invoke(r.Context(), payload)
		if err != nil {
			http.Error(w, "invocation failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		resp, err := d.adapter.DecodeResponse(out)
		if err != nil {
			http.Error(w, "decode invocation output: "+err.Error(), http.StatusInternalServerError)
			return
		}

		for _, f := range resp.Header {
			w.Header().Add(f.Name, f.Value)
		}

		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write(resp.Body)
	})
}

// looksLikeGatewayEvent checks that a raw payload carries a method in
// one of the supported gateway shapes, so an obviously wrong body gets
// a 400 at the front end instead of an invocation failure.
func looksLikeGatewayEvent(payload []byte) bool {
	return gjson.GetBytes(payload, "httpMethod").Exists() ||
		gjson.GetBytes(payload, "requestContext.http.method").Exists()
}

// NewLocalServer wraps the local handler in an http.Server listening on
// the given port (or [DefaultLocalPort] when zero). This is development
// tooling, not a production server: timeouts are generous and there is
// no TLS, but concurrent connections each drive the invocation driver
// independently.
func NewLocalServer(d *Driver, port int) *http.Server {
	if port == 0 {
		port = DefaultLocalPort
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewLocalHandler(d),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
