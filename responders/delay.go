package responders

import (
	"context"
	"time"

	"github.com/ggriffiniii/httptest"
)

type delayResponder struct {
	d     time.Duration
	inner httptest.Responder
}

// Delay waits d before delegating to inner, to simulate a slow upstream.
// Stopping the server cancels the wait so in-flight delays end promptly;
// the delegate still runs, its response racing the connection teardown.
func Delay(d time.Duration, inner httptest.Responder) httptest.Responder {
	return &delayResponder{d: d, inner: inner}
}

func (r *delayResponder) Respond(ctx context.Context, req *httptest.Request) *httptest.Response {
	timer := time.NewTimer(r.d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return r.inner.Respond(ctx, req)
}
