package lapp

import (
	"context"
	"time"

	"github.com/advdv/olat"
)

// The aws-lambda-go runtime puts the platform's invocation deadline on
// the handler context, so in-flight work is already cancelled when the
// function runs out of time. The middleware below additionally reserves
// a small buffer before that deadline: without it, a handler that uses
// every last millisecond leaves no time to encode an output or write an
// error-level log entry before the platform kills the process instance.

// DefaultDeadlineBuffer is the default time reserved before the
// invocation deadline for encoding the output and cleanup.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// WithDeadlineBuffer returns middleware that pulls the context deadline
// forward by the given buffer. Contexts without a deadline (local test
// mode) pass through unchanged.
func WithDeadlineBuffer(buffer time.Duration) olat.Middleware {
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	return func(next olat.Handler) olat.Handler {
		return func(ctx context.Context, req olat.Request, params olat.Params) (olat.Response, error) {
			if deadline, ok := ctx.Deadline(); ok {
				adjusted := deadline.Add(-buffer)
				if time.Until(adjusted) > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithDeadline(ctx, adjusted)
					defer cancel()
				}
			}

			return next(ctx, req, params)
		}
	}
}

// RemainingTime returns the duration until the invocation deadline, or
// 0 when no deadline is set or it has passed.
func RemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}

	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}

	return remaining
}
