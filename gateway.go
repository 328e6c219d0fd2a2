package olat

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/cockroachdb/errors"
)

// GatewayV1Adapter converts API Gateway proxy events in payload format
// version 1.0 (the REST API shape, where method and path sit directly
// on the event). Header multiplicity travels through the multi-value
// maps; the single-value maps are filled with the last value per name,
// matching what API Gateway itself does.
type GatewayV1Adapter struct{}

var _ EventAdapter = GatewayV1Adapter{}

// DecodeRequest decodes an APIGatewayProxyRequest payload into the
// generic request shape.
func (GatewayV1Adapter) DecodeRequest(payload []byte) (Request, error) {
	var event events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "unmarshal v1 gateway event"), ErrMalformedEvent)
	}

	if event.HTTPMethod == "" || event.Path == "" {
		return Request{}, errors.Mark(
			errors.Newf("v1 gateway event without method or path: %q %q", event.HTTPMethod, event.Path),
			ErrMalformedEvent)
	}

	header := headerFromMaps(event.MultiValueHeaders, event.Headers)

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return Request{}, errors.Mark(err, ErrMalformedEvent)
	}

	return NewRequest(
		event.HTTPMethod,
		schemeFrom(header),
		authorityFrom(header, event.RequestContext.DomainName),
		event.Path,
		header,
		body,
	)
}

// EncodeResponse encodes the generic response as an
// APIGatewayProxyResponse payload. Bodies that are not valid UTF-8 get
// the base64 binary-safe transform with IsBase64Encoded set.
func (GatewayV1Adapter) EncodeResponse(resp Response) ([]byte, error) {
	body, isBase64 := encodeBody(resp.Body)

	out := events.APIGatewayProxyResponse{
		StatusCode:        resp.StatusCode,
		Headers:           lastValueMap(resp.Header),
		MultiValueHeaders: multiValueMap(resp.Header),
		Body:              body,
		IsBase64Encoded:   isBase64,
	}

	return json.Marshal(out)
}

// EncodeRequest synthesizes a v1 gateway event payload from a raw HTTP
// request, for the local test front end.
func (GatewayV1Adapter) EncodeRequest(r *http.Request, body []byte) ([]byte, error) {
	encoded, isBase64 := encodeBody(body)

	event := events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         lastValueMap(headerFromStd(r.Header)),
		MultiValueHeaders:               r.Header,
		QueryStringParameters:           lastQueryValues(r),
		MultiValueQueryStringParameters: r.URL.Query(),
		Body:                            encoded,
		IsBase64Encoded:                 isBase64,
		RequestContext: events.APIGatewayProxyRequestContext{
			DomainName: r.Host,
		},
	}

	return json.Marshal(event)
}

// DecodeResponse interprets a v1 gateway output payload as a generic
// response, for the local test front end and round-trip tests.
func (GatewayV1Adapter) DecodeResponse(payload []byte) (Response, error) {
	var out events.APIGatewayProxyResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return Response{}, errors.Wrap(err, "unmarshal v1 gateway output")
	}

	body, err := decodeBody(out.Body, out.IsBase64Encoded)
	if err != nil {
		return Response{}, err
	}

	return Response{
		StatusCode: out.StatusCode,
		Header:     headerFromMaps(out.MultiValueHeaders, out.Headers),
		Body:       body,
	}, nil
}

// headerFromMaps builds an ordered header from the gateway's header
// maps, preferring the multi-value map when present. Names are visited
// in sorted order so decoding is deterministic; values within one name
// keep their original order.
func headerFromMaps(multi map[string][]string, single map[string]string) Header {
	var header Header

	if len(multi) > 0 {
		for _, name := range sortedKeys(multi) {
			for _, val := range multi[name] {
				header.Add(name, val)
			}
		}

		return header
	}

	for _, name := range sortedKeys(single) {
		header.Add(name, single[name])
	}

	return header
}

func headerFromStd(h http.Header) Header {
	return headerFromMaps(h, nil)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func lastValueMap(header Header) map[string]string {
	if len(header) == 0 {
		return nil
	}

	m := map[string]string{}
	for _, f := range header {
		m[f.Name] = f.Value
	}

	return m
}

func multiValueMap(header Header) map[string][]string {
	if len(header) == 0 {
		return nil
	}

	m := map[string][]string{}
	for _, f := range header {
		m[f.Name] = append(m[f.Name], f.Value)
	}

	return m
}

func lastQueryValues(r *http.Request) map[string]string {
	q := r.URL.Query()
	if len(q) == 0 {
		return nil
	}

	m := map[string]string{}
	for name, vals := range q {
		if len(vals) > 0 {
			m[name] = vals[len(vals)-1]
		}
	}

	return m
}

// decodeBody reverses the gateway's body encoding. An empty body string
// decodes to nil so an absent body stays absent through a round trip.
func decodeBody(body string, isBase64 bool) ([]byte, error) {
	if body == "" {
		return nil, nil
	}

	if isBase64 {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 body")
		}

		return raw, nil
	}

	return []byte(body), nil
}

// encodeBody applies the binary-safe transform: bodies that are valid
// UTF-8 travel as raw text, anything else is base64-encoded and
// flagged.
func encodeBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	if utf8.Valid(body) {
		return string(body), false
	}

	return base64.StdEncoding.EncodeToString(body), true
}

func schemeFrom(header Header) string {
	if proto := header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}

	return "https"
}

func authorityFrom(header Header, domain string) string {
	if domain != "" {
		return domain
	}

	return header.Get("Host")
}
