package olat

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about notable per-invocation
// conditions the driver recovers on its own.
type Logger interface {
	LogRoutingMiss(method Method, path string)
	LogInvalidMethod(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogRoutingMiss(method Method, path string) {
	l.Logger.Printf("olat: no route for %s %s", method, path)
}

func (l stdLogger) LogInvalidMethod(err error) {
	l.Logger.Printf("olat: invalid method: %s", err)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumRoutingMiss   int64
	NumInvalidMethod int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogRoutingMiss(method Method, path string) {
	atomic.AddInt64(&l.NumRoutingMiss, 1)
	l.tb.Logf("olat: no route for %s %s", method, path)
}

func (l *TestLogger) LogInvalidMethod(err error) {
	atomic.AddInt64(&l.NumInvalidMethod, 1)
	l.tb.Logf("olat: invalid method: %s", err)
}

var _ Logger = &TestLogger{}
