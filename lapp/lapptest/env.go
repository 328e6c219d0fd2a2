package lapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for overriding the base environment
// variables set by [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets every [lapp.BaseEnvironment] variable to a sensible
// test default via t.Setenv:
//
//   - OLAT_SERVICE_NAME: "test"
//   - OLAT_OTEL_EXPORTER: "stdout"
//   - LOCAL_TEST_MODE: "false"
//   - OTEL_SDK_DISABLED: "true"
//   - AWS_REGION: "us-east-1"
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: "test"
//
// Use the returned [Env] to override individual values:
//
//	lapptest.SetBaseEnv(t).PayloadFormat("rest").LocalTestMode(18085)
func SetBaseEnv(t testing.TB) *Env {
	t.Helper()
	t.Setenv("OLAT_SERVICE_NAME", "test")
	t.Setenv("OLAT_OTEL_EXPORTER", "stdout")
	t.Setenv("LOCAL_TEST_MODE", "false")
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	return &Env{t: t}
}

// ServiceName overrides OLAT_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("OLAT_SERVICE_NAME", name)
	return e
}

// PayloadFormat overrides OLAT_PAYLOAD_FORMAT.
func (e *Env) PayloadFormat(format string) *Env {
	e.t.Helper()
	e.t.Setenv("OLAT_PAYLOAD_FORMAT", format)
	return e
}

// ErrorStatusCodes overrides OLAT_ERROR_STATUS_CODES.
func (e *Env) ErrorStatusCodes(expr string) *Env {
	e.t.Helper()
	e.t.Setenv("OLAT_ERROR_STATUS_CODES", expr)
	return e
}

// LocalTestMode enables the local front end on the given port. Each
// test must use a unique port to avoid collisions.
func (e *Env) LocalTestMode(port int) *Env {
	e.t.Helper()
	e.t.Setenv("LOCAL_TEST_MODE", "true")
	e.t.Setenv("LOCAL_TEST_PORT", strconv.Itoa(port))
	return e
}

// LogLevel overrides OLAT_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Helper()
	e.t.Setenv("OLAT_LOG_LEVEL", level)
	return e
}
