package olat_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/olat"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"
)

func TestV1DecodeRequest(t *testing.T) {
	payload, err := json.Marshal(events.APIGatewayProxyRequest{
		HTTPMethod: "GET",
		Path:       "/stocks/AAPL",
		MultiValueHeaders: map[string][]string{
			"Accept":            {"application/json", "text/plain"},
			"X-Forwarded-Proto": {"https"},
		},
		RequestContext: events.APIGatewayProxyRequestContext{DomainName: "api.example.com"},
	})
	require.NoError(t, err)

	req, err := olat.GatewayV1Adapter{}.DecodeRequest(payload)
	require.NoError(t, err)
	require.Equal(t, olat.MethodGet, req.Method)
	require.Equal(t, "/stocks/AAPL", req.Path)
	require.Equal(t, "https", req.Scheme)
	require.Equal(t, "api.example.com", req.Authority)
	require.Equal(t, []string{"application/json", "text/plain"}, req.Header.Values("Accept"))
	require.Nil(t, req.Body)
}

func TestV1DecodeRequestMalformed(t *testing.T) {
	_, err := olat.GatewayV1Adapter{}.DecodeRequest([]byte(`{"httpMethod":"GET"}`))
	require.ErrorIs(t, err, olat.ErrMalformedEvent)

	_, err = olat.GatewayV1Adapter{}.DecodeRequest([]byte(`[1,2]`))
	require.ErrorIs(t, err, olat.ErrMalformedEvent)

	// present-but-unparsable method is the invalid-method condition
	_, err = olat.GatewayV1Adapter{}.DecodeRequest([]byte(`{"httpMethod":"FETCH","path":"/x"}`))
	require.ErrorIs(t, err, olat.ErrInvalidMethod)

	// a base64 flag on a non-base64 body makes the event undecodable
	_, err = olat.GatewayV1Adapter{}.DecodeRequest(
		[]byte(`{"httpMethod":"POST","path":"/x","body":"!!","isBase64Encoded":true}`))
	require.ErrorIs(t, err, olat.ErrMalformedEvent)
}

func TestV1ResponseRoundTrip(t *testing.T) {
	var header olat.Header
	header.Add("Content-Type", "application/json")
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")

	resp := olat.Response{StatusCode: 200, Header: header, Body: []byte(`{"ok":true}`)}

	out, err := olat.GatewayV1Adapter{}.EncodeResponse(resp)
	require.NoError(t, err)

	// header multiplicity survives via the multi-value map
	var encoded events.APIGatewayProxyResponse
	require.NoError(t, json.Unmarshal(out, &encoded))
	require.Equal(t, []string{"a=1", "b=2"}, encoded.MultiValueHeaders["Set-Cookie"])
	require.False(t, encoded.IsBase64Encoded)

	back, err := olat.GatewayV1Adapter{}.DecodeResponse(out)
	require.NoError(t, err)
	require.Equal(t, resp.StatusCode, back.StatusCode)
	require.Equal(t, resp.Body, back.Body)
	require.Equal(t, []string{"a=1", "b=2"}, back.Header.Values("Set-Cookie"))
	require.Equal(t, []string{"application/json"}, back.Header.Values("Content-Type"))
}

func TestV1BinaryBody(t *testing.T) {
	binary := []byte{0x89, 0x50, 0x4e, 0x47, 0xff, 0xfe}

	out, err := olat.GatewayV1Adapter{}.EncodeResponse(olat.Response{StatusCode: 200, Body: binary})
	require.NoError(t, err)

	var encoded events.APIGatewayProxyResponse
	require.NoError(t, json.Unmarshal(out, &encoded))
	require.True(t, encoded.IsBase64Encoded)
	require.Equal(t, base64.StdEncoding.EncodeToString(binary), encoded.Body)

	back, err := olat.GatewayV1Adapter{}.DecodeResponse(out)
	require.NoError(t, err)
	require.Equal(t, binary, back.Body)
}

func TestV1EncodeRequestFromHTTP(t *testing.T) {
	httpReq := httptest.NewRequest("POST", "https://example.com/stocks/AAPL/orders?dry=1", strings.NewReader(`{"qty":10}`))
	httpReq.Header.Add("Accept", "application/json")
	httpReq.Header.Add("Accept", "text/plain")

	payload, err := olat.GatewayV1Adapter{}.EncodeRequest(httpReq, []byte(`{"qty":10}`))
	require.NoError(t, err)

	req, err := olat.GatewayV1Adapter{}.DecodeRequest(payload)
	require.NoError(t, err)
	require.Equal(t, olat.MethodPost, req.Method)
	require.Equal(t, "/stocks/AAPL/orders", req.Path)
	require.Equal(t, "example.com", req.Authority)
	require.Equal(t, []string{"application/json", "text/plain"}, req.Header.Values("Accept"))
	require.Equal(t, []byte(`{"qty":10}`), req.Body)
}

func TestV2DecodeRequest(t *testing.T) {
	payload, err := json.Marshal(events.APIGatewayV2HTTPRequest{
		Version: "2.0",
		RawPath: "/stocks/AAPL",
		Headers: map[string]string{"accept": "application/json"},
		Cookies: []string{"session=abc"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "api.example.com",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: "GET",
				Path:   "/stocks/AAPL",
			},
		},
	})
	require.NoError(t, err)

	req, err := olat.GatewayV2Adapter{}.DecodeRequest(payload)
	require.NoError(t, err)
	require.Equal(t, olat.MethodGet, req.Method)
	require.Equal(t, "/stocks/AAPL", req.Path)
	require.Equal(t, "api.example.com", req.Authority)
	require.Equal(t, "application/json", req.Header.Get("Accept"))
	require.Equal(t, []string{"session=abc"}, req.Header.Values("Cookie"))
}

func TestV2DecodeRequestMalformed(t *testing.T) {
	_, err := olat.GatewayV2Adapter{}.DecodeRequest([]byte(`{"version":"2.0","rawPath":"/x"}`))
	require.ErrorIs(t, err, olat.ErrMalformedEvent)

	_, err = olat.GatewayV2Adapter{}.DecodeRequest([]byte(`"nope"`))
	require.ErrorIs(t, err, olat.ErrMalformedEvent)
}

func TestV2ResponseRoundTrip(t *testing.T) {
	var header olat.Header
	header.Add("Content-Type", "application/json")
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")

	out, err := olat.GatewayV2Adapter{}.EncodeResponse(olat.Response{
		StatusCode: 201, Header: header, Body: []byte(`{"ok":true}`),
	})
	require.NoError(t, err)

	// cookies move to the dedicated list so comma-joining can't corrupt them
	var encoded events.APIGatewayV2HTTPResponse
	require.NoError(t, json.Unmarshal(out, &encoded))
	require.Equal(t, []string{"a=1", "b=2"}, encoded.Cookies)
	require.Equal(t, "application/json", encoded.Headers["Content-Type"])
	require.NotContains(t, encoded.Headers, "Set-Cookie")

	back, err := olat.GatewayV2Adapter{}.DecodeResponse(out)
	require.NoError(t, err)
	require.Equal(t, 201, back.StatusCode)
	require.Equal(t, []byte(`{"ok":true}`), back.Body)
	require.Equal(t, []string{"a=1", "b=2"}, back.Header.Values("Set-Cookie"))
}

func TestV2EncodeRequestFromHTTP(t *testing.T) {
	httpReq := httptest.NewRequest("GET", "https://example.com/stocks/AAPL?full=1", nil)
	httpReq.Header.Set("Cookie", "session=abc")
	httpReq.Header.Set("Accept", "application/json")

	payload, err := olat.GatewayV2Adapter{}.EncodeRequest(httpReq, nil)
	require.NoError(t, err)

	req, err := olat.GatewayV2Adapter{}.DecodeRequest(payload)
	require.NoError(t, err)
	require.Equal(t, olat.MethodGet, req.Method)
	require.Equal(t, "/stocks/AAPL", req.Path)
	require.Equal(t, "application/json", req.Header.Get("Accept"))
	require.Equal(t, []string{"session=abc"}, req.Header.Values("Cookie"))
	require.Nil(t, req.Body)
}
