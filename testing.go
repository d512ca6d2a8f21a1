package httptest

import (
	"testing"

	"github.com/ggriffiniii/httptest/logging"
)

// Start creates a Server, starts it on an ephemeral port, and ties its
// lifetime to the test: when the test finishes the server is stopped and
// every expectation is verified, failing the test on any violation or
// unmatched request.
//
//	srv := httptest.Start(t)
//	srv.Expect(httptest.Matching(matchers.MethodPath("GET", "/users/1")).
//	    RespondWith(responders.JSON(map[string]any{"id": 1})))
//
// Server logs go through tb.Log so they interleave with test output; pass
// WithLogger to override.
func Start(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s := New(append([]Option{WithLogger(logging.NewTB(tb))}, opts...)...)
	if err := s.Start(); err != nil {
		tb.Fatalf("failed to start mock server: %v", err)
	}
	tb.Cleanup(func() {
		if err := s.Stop(); err != nil {
			tb.Errorf("failed to stop mock server: %v", err)
		}
		if err := s.Verify(); err != nil {
			tb.Error(err)
		}
	})
	return s
}
