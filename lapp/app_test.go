package lapp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/advdv/olat"
	"github.com/advdv/olat/lapp"
	"github.com/advdv/olat/lapp/lapptest"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Handlers struct {
	rt *lapp.Runtime[TestEnv]
}

func NewHandlers(rt *lapp.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) Quote(ctx context.Context, _ olat.Request, params olat.Params) (olat.Response, error) {
	lapp.Log(ctx).Info("serving quote", zap.String("symbol", params["symbol"]))

	body, err := json.Marshal(map[string]string{
		"symbol": params["symbol"],
		"table":  h.rt.Env().QuoteTable,
	})
	if err != nil {
		return olat.Response{}, err
	}

	return olat.Response{
		StatusCode: http.StatusOK,
		Header:     olat.Header{{Name: "Content-Type", Value: "application/json"}},
		Body:       body,
	}, nil
}

func (h *Handlers) Explode(context.Context, olat.Request, olat.Params) (olat.Response, error) {
	return olat.Response{}, errors.New("upstream exploded")
}

func routing(tr *olat.Transport, h *Handlers) error {
	if err := tr.Register("GET", "/stocks/{symbol}", h.Quote); err != nil {
		return err
	}

	return tr.Register("GET", "/explode", h.Explode)
}

// waitForServer polls until the local front end accepts connections.
func waitForServer(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	var resp *http.Response
	var err error
	for range 50 {
		resp, err = client.Get(url)
		if err == nil {
			return resp
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("local front end never came up: %v", err)

	return nil
}

func TestApp_LocalFrontEnd(t *testing.T) {
	const port = 18090
	lapptest.SetBaseEnv(t).ServiceName("quote-svc").LocalTestMode(port)
	t.Setenv("QUOTE_TABLE", "quotes-test")

	app := lapptest.New[TestEnv](t, routing, lapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp := waitForServer(t, client, baseURL+"/stocks/amzn")
	defer resp.Body.Close()

	t.Run("synthesized request reaches the handler", func(t *testing.T) {
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var result map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "amzn", result["symbol"])
		assert.Equal(t, "quotes-test", result["table"])
	})

	t.Run("routing miss becomes a 404 response", func(t *testing.T) {
		miss, err := client.Get(baseURL + "/bonds/amzn")
		require.NoError(t, err)
		defer miss.Body.Close()

		assert.Equal(t, http.StatusNotFound, miss.StatusCode)
	})

	t.Run("handler error surfaces as invocation failure", func(t *testing.T) {
		boom, err := client.Get(baseURL + "/explode")
		require.NoError(t, err)
		defer boom.Body.Close()

		body, err := io.ReadAll(boom.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, boom.StatusCode)
		assert.Contains(t, string(body), "upstream exploded")
	})

	t.Run("invoke endpoint accepts a raw event payload", func(t *testing.T) {
		payload := lapptest.V2Event(t, "GET", "/stocks/msft", "")

		out, err := client.Post(baseURL+olat.InvokePath, "application/json", bytes.NewReader(payload))
		require.NoError(t, err)
		defer out.Body.Close()

		require.Equal(t, http.StatusOK, out.StatusCode)

		var result map[string]string
		require.NoError(t, json.NewDecoder(out.Body).Decode(&result))
		assert.Equal(t, "msft", result["symbol"])
	})

	t.Run("invoke endpoint rejects non-event bodies", func(t *testing.T) {
		out, err := client.Post(baseURL+olat.InvokePath, "application/json", bytes.NewReader([]byte(`{"hello":"world"}`)))
		require.NoError(t, err)
		defer out.Body.Close()

		assert.Equal(t, http.StatusBadRequest, out.StatusCode)
	})
}

func TestApp_RestPayloadFormat(t *testing.T) {
	const port = 18091
	lapptest.SetBaseEnv(t).PayloadFormat("rest").LocalTestMode(port)

	app := lapptest.New[TestEnv](t, routing, lapp.WithFx(fx.Provide(NewHandlers)))
	app.RequireStart()
	t.Cleanup(app.RequireStop)

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp := waitForServer(t, client, baseURL+"/stocks/ibm")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ibm", result["symbol"])

	payload := lapptest.V1Event(t, "GET", "/stocks/goog", "")
	out, err := client.Post(baseURL+olat.InvokePath, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer out.Body.Close()

	require.Equal(t, http.StatusOK, out.StatusCode)
}

func TestApp_RegistrationErrorFailsStartup(t *testing.T) {
	lapptest.SetBaseEnv(t)

	noop := func(context.Context, olat.Request, olat.Params) (olat.Response, error) {
		return olat.Response{StatusCode: http.StatusOK}, nil
	}

	app := lapp.NewApp[TestEnv](func(tr *olat.Transport) error {
		if err := tr.Register("GET", "/dup", noop); err != nil {
			return err
		}
		return tr.Register("GET", "/dup", noop)
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.Error(t, app.Start(ctx))
}

func TestCallHandler(t *testing.T) {
	h := func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
		lapp.Log(ctx).Info("unit test")
		return olat.Response{StatusCode: 204}, nil
	}

	resp, err := lapptest.CallHandler(t, h, olat.Request{Method: olat.MethodGet, Path: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
