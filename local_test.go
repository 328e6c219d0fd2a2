package olat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/olat"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestLocalHandlerSynthesizesEvent(t *testing.T) {
	d := newQuoteDriver(t, olat.GatewayV2Adapter{})
	srv := httptest.NewServer(olat.NewLocalHandler(d))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/stocks/AAPL")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var buf [128]byte
	n, _ := resp.Body.Read(buf[:])
	require.JSONEq(t, `{"symbol":"AAPL","price":123.45}`, string(buf[:n]))
}

func TestLocalHandlerRoutingMiss(t *testing.T) {
	d := newQuoteDriver(t, olat.GatewayV2Adapter{})
	srv := httptest.NewServer(olat.NewLocalHandler(d))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/bonds/DE0001")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLocalHandlerInvokeEndpoint(t *testing.T) {
	d := newQuoteDriver(t, olat.GatewayV1Adapter{})
	srv := httptest.NewServer(olat.NewLocalHandler(d))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+olat.InvokePath, "application/json",
		strings.NewReader(`{"httpMethod":"GET","path":"/stocks/AAPL"}`))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a body that is not an event payload is rejected at the front end
	resp2, err := http.Post(srv.URL+olat.InvokePath, "application/json",
		strings.NewReader(`{"hello":"world"}`))
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestLocalHandlerInvocationFailure(t *testing.T) {
	transport := olat.NewTransport()
	transport.MustRegister("GET", "/stocks/{symbol}",
		func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
			return olat.Response{}, errors.New("upstream exploded")
		})
	d := olat.NewDriver(transport, olat.GatewayV2Adapter{}, olat.WithLogger(olat.NewTestLogger(t)))

	srv := httptest.NewServer(olat.NewLocalHandler(d))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/stocks/AAPL")
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	// handler defects surface as invocation failures, not gateway responses
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var buf [256]byte
	n, _ := resp.Body.Read(buf[:])
	require.Contains(t, string(buf[:n]), "invocation failed")
	require.Contains(t, string(buf[:n]), "upstream exploded")
}

func TestLocalHandlerConcurrentConnections(t *testing.T) {
	d := newQuoteDriver(t, olat.GatewayV2Adapter{})
	srv := httptest.NewServer(olat.NewLocalHandler(d))
	t.Cleanup(srv.Close)

	done := make(chan error, 8)
	for range 8 {
		go func() {
			resp, err := http.Get(srv.URL + "/stocks/AAPL")
			if err == nil {
				resp.Body.Close()
			}
			done <- err
		}()
	}

	for range 8 {
		require.NoError(t, <-done)
	}
}

func TestNewLocalServerDefaults(t *testing.T) {
	d := newQuoteDriver(t, olat.GatewayV2Adapter{})

	srv := olat.NewLocalServer(d, 0)
	require.Equal(t, ":7000", srv.Addr)

	srv = olat.NewLocalServer(d, 18099)
	require.Equal(t, ":18099", srv.Addr)
}
