package lapptest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/advdv/olat"
	"github.com/advdv/olat/lapp"
	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// CallHandler invokes an [olat.Handler] with a context prepared the way
// the app's middleware would prepare it, so handlers that call
// [lapp.Log] can be unit-tested without the full DI graph.
func CallHandler(t testing.TB, h olat.Handler, req olat.Request, params olat.Params) (olat.Response, error) {
	t.Helper()

	ctx := lapp.WithLogger(context.Background(), zap.NewNop())

	return h(ctx, req, params)
}

// V1Event marshals an API Gateway payload format 1.0 event for the
// given method and path, optionally with a textual body.
func V1Event(t testing.TB, method, path, body string) []byte {
	t.Helper()

	payload, err := json.Marshal(events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Body:       body,
	})
	if err != nil {
		t.Fatalf("lapptest: marshal v1 event: %v", err)
	}

	return payload
}

// V2Event marshals an API Gateway payload format 2.0 event for the
// given method and path, optionally with a textual body.
func V2Event(t testing.TB, method, path, body string) []byte {
	t.Helper()

	payload, err := json.Marshal(events.APIGatewayV2HTTPRequest{
		Version: "2.0",
		RawPath: path,
		Body:    body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method,
				Path:   path,
			},
		},
	})
	if err != nil {
		t.Fatalf("lapptest: marshal v2 event: %v", err)
	}

	return payload
}
