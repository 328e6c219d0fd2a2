package olat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// GatewayV2Adapter converts API Gateway events in payload format
// version 2.0 (the HTTP API shape, where method and path are nested
// under the request context). The v2 request shape has no multi-value
// header map: the gateway joins repeated headers with commas and
// carries cookies in a separate list, and this adapter mirrors both
// conventions.
type GatewayV2Adapter struct{}

var _ EventAdapter = GatewayV2Adapter{}

// DecodeRequest decodes an APIGatewayV2HTTPRequest payload into the
// generic request shape.
func (GatewayV2Adapter) DecodeRequest(payload []byte) (Request, error) {
	var event events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(payload, &event); err != nil {
		return Request{}, errors.Mark(errors.Wrap(err, "unmarshal v2 gateway event"), ErrMalformedEvent)
	}

	method := event.RequestContext.HTTP.Method
	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}

	if method == "" || path == "" {
		return Request{}, errors.Mark(
			errors.Newf("v2 gateway event without method or path: %q %q", method, path),
			ErrMalformedEvent)
	}

	var header Header
	for _, name := range sortedKeys(event.Headers) {
		header.Add(name, event.Headers[name])
	}

	for _, cookie := range event.Cookies {
		header.Add("Cookie", cookie)
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return Request{}, errors.Mark(err, ErrMalformedEvent)
	}

	return NewRequest(
		method,
		schemeFrom(header),
		authorityFrom(header, event.RequestContext.DomainName),
		path,
		header,
		body,
	)
}

// EncodeResponse encodes the generic response as an
// APIGatewayV2HTTPResponse payload. Repeated non-cookie headers are
// joined with commas into the single-value map; Set-Cookie fields move
// to the dedicated cookie list, since comma-joining would corrupt them.
func (GatewayV2Adapter) EncodeResponse(resp Response) ([]byte, error) {
	body, isBase64 := encodeBody(resp.Body)

	cookies := lo.FilterMap(resp.Header, func(f Field, _ int) (string, bool) {
		return f.Value, strings.EqualFold(f.Name, "Set-Cookie")
	})

	joined := map[string]string{}
	for _, f := range resp.Header {
		if strings.EqualFold(f.Name, "Set-Cookie") {
			continue
		}

		if prev, ok := joined[f.Name]; ok {
			joined[f.Name] = prev + "," + f.Value

			continue
		}

		joined[f.Name] = f.Value
	}

	if len(joined) == 0 {
		joined = nil
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode:      resp.StatusCode,
		Headers:         joined,
		Cookies:         cookies,
		Body:            body,
		IsBase64Encoded: isBase64,
	}

	return json.Marshal(out)
}

// EncodeRequest synthesizes a v2 gateway event payload from a raw HTTP
// request, for the local test front end.
func (GatewayV2Adapter) EncodeRequest(r *http.Request, body []byte) ([]byte, error) {
	encoded, isBase64 := encodeBody(body)

	headers := map[string]string{}
	for name, vals := range r.Header {
		if strings.EqualFold(name, "Cookie") {
			continue
		}

		headers[name] = strings.Join(vals, ",")
	}

	cookies := lo.Map(r.Cookies(), func(c *http.Cookie, _ int) string { return c.String() })

	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RawPath:               r.URL.Path,
		RawQueryString:        r.URL.RawQuery,
		Headers:               headers,
		Cookies:               cookies,
		QueryStringParameters: lastQueryValues(r),
		Body:                  encoded,
		IsBase64Encoded:       isBase64,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: r.Host,
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: r.Method,
				Path:   r.URL.Path,
			},
		},
	}

	return json.Marshal(event)
}

// DecodeResponse interprets a v2 gateway output payload as a generic
// response, for the local test front end and round-trip tests.
func (GatewayV2Adapter) DecodeResponse(payload []byte) (Response, error) {
	var out events.APIGatewayV2HTTPResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return Response{}, errors.Wrap(err, "unmarshal v2 gateway output")
	}

	header := headerFromMaps(out.MultiValueHeaders, out.Headers)
	for _, cookie := range out.Cookies {
		header.Add("Set-Cookie", cookie)
	}

	body, err := decodeBody(out.Body, out.IsBase64Encoded)
	if err != nil {
		return Response{}, err
	}

	return Response{
		StatusCode: out.StatusCode,
		Header:     header,
		Body:       body,
	}, nil
}
