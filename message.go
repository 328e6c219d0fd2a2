package olat

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Method is an HTTP method token recognized by the transport.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

var methods = map[Method]struct{}{
	MethodGet: {}, MethodHead: {}, MethodPost: {}, MethodPut: {},
	MethodPatch: {}, MethodDelete: {}, MethodOptions: {}, MethodTrace: {},
}

// ParseMethod turns a raw token into a [Method]. It fails with an error
// marked [ErrInvalidMethod] for anything that is not a recognized HTTP
// method. Matching is case-sensitive: gateways deliver method tokens
// upper-cased and anything else is treated as unrecognized.
func ParseMethod(token string) (Method, error) {
	m := Method(token)
	if _, ok := methods[m]; !ok {
		return "", errors.Mark(errors.Newf("unrecognized http method: %q", token), ErrInvalidMethod)
	}

	return m, nil
}

// Field is a single header field. Names compare case-insensitively but
// the original casing is preserved.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered collection of header fields. Unlike the standard
// library's map-based http.Header, duplicates keep their relative order,
// which lets the event adapters reproduce header multiplicity exactly.
type Header []Field

// Add appends a field, keeping insertion order.
func (h *Header) Add(name, value string) {
	*h = append(*h, Field{Name: name, Value: value})
}

// Get returns the first value for the named field, or "" if absent.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}

	return ""
}

// Values returns all values for the named field in insertion order.
func (h Header) Values(name string) []string {
	var vals []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			vals = append(vals, f.Value)
		}
	}

	return vals
}

// Request is the generic HTTP request shape that event adapters decode
// into and handlers consume. It carries no connection state; the body is
// an optional opaque byte sequence (nil means no body). Construct it
// with [NewRequest] and treat it as immutable afterwards.
type Request struct {
	Method    Method
	Scheme    string
	Authority string
	Path      string
	Header    Header
	Body      []byte
}

// NewRequest validates the method token and constructs a request. No
// validation beyond the method is performed: header values and the
// authority pass through opaquely, and the path is kept raw (parameter
// values stay percent-encoded). Downstream generated code is
// responsible for interpreting them.
func NewRequest(method, scheme, authority, path string, header Header, body []byte) (Request, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Method:    m,
		Scheme:    scheme,
		Authority: authority,
		Path:      path,
		Header:    header,
		Body:      body,
	}, nil
}

// Response is the generic HTTP response shape handlers produce and event
// adapters encode. The body is optional (nil means no body).
type Response struct {
	StatusCode int
	Header     Header
	Body       []byte
}
