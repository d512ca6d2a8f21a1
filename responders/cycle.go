package responders

import (
	"context"
	"sync"

	"github.com/ggriffiniii/httptest"
)

// CycleResponder steps through a sequence of responders, one per request,
// and repeats the last one once the sequence is exhausted. Useful for
// scripting recovery flows: fail twice, then succeed forever.
type CycleResponder struct {
	mu         sync.Mutex
	responders []httptest.Responder
	next       int
}

var _ httptest.Responder = (*CycleResponder)(nil)

// Cycle creates a CycleResponder over rs. Panics if rs is empty.
func Cycle(rs ...httptest.Responder) *CycleResponder {
	if len(rs) == 0 {
		panic("responders: Cycle requires at least one responder")
	}
	return &CycleResponder{responders: rs}
}

// Respond implements httptest.Responder. Concurrent requests each take one
// step; the step and the advance are atomic.
func (c *CycleResponder) Respond(ctx context.Context, req *httptest.Request) *httptest.Response {
	c.mu.Lock()
	r := c.responders[c.next]
	if c.next < len(c.responders)-1 {
		c.next++
	}
	c.mu.Unlock()
	return r.Respond(ctx, req)
}
