package httptest_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggriffiniii/httptest"
	"github.com/ggriffiniii/httptest/matchers"
	"github.com/ggriffiniii/httptest/responders"
)

func TestServerPool_ReusesServerAcrossTests(t *testing.T) {
	pool := httptest.NewServerPool(1)
	defer pool.Shutdown()

	var firstAddr string

	t.Run("first borrower", func(t *testing.T) {
		s := pool.Get(t)
		firstAddr = s.Addr()

		s.Expect(httptest.
			Matching(matchers.MethodPath("GET", "/first")).
			RespondWith(responders.Status(200)))
		resp, _ := mustGet(t, s.URL("/first"))
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("second borrower", func(t *testing.T) {
		s := pool.Get(t)
		assert.Equal(t, firstAddr, s.Addr(), "a pool of one hands back the same server")
		assert.Empty(t, s.Requests(), "history is cleared between borrowers")
		assert.Empty(t, s.UnmatchedRequests())

		// The first borrower's expectations are gone; this round starts
		// from a clean slate.
		s.Expect(httptest.
			Matching(matchers.MethodPath("GET", "/second")).
			RespondWith(responders.Status(201)))
		resp, _ := mustGet(t, s.URL("/second"))
		assert.Equal(t, 201, resp.StatusCode)
	})
}

func TestServerPool_ParallelBorrowersGetDistinctServers(t *testing.T) {
	pool := httptest.NewServerPool(2)
	defer pool.Shutdown()

	var (
		mu    sync.Mutex
		addrs = map[string]int{}
	)
	var holding sync.WaitGroup
	holding.Add(2)

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"left", "right"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				s := pool.Get(t)

				mu.Lock()
				addrs[s.Addr()]++
				mu.Unlock()

				s.Expect(httptest.
					Matching(matchers.MethodPath("GET", "/own")).
					RespondWith(responders.Status(200)))
				resp, _ := mustGet(t, s.URL("/own"))
				assert.Equal(t, 200, resp.StatusCode)

				// Hold the server until the sibling has one too, so the
				// pool cannot satisfy both borrowers with one listener.
				holding.Done()
				holding.Wait()
			})
		}
	})

	require.Len(t, addrs, 2, "simultaneous borrowers each held their own server")
	for addr, count := range addrs {
		assert.Equal(t, 1, count, "server %s was handed out once", addr)
	}
}

func TestServerPool_ShutdownStopsIdleServers(t *testing.T) {
	pool := httptest.NewServerPool(1)

	var addr string
	t.Run("borrow once", func(t *testing.T) {
		s := pool.Get(t)
		addr = s.Addr()
		require.NotEmpty(t, addr)

		s.Expect(httptest.
			Matching(matchers.MethodPath("GET", "/warm")).
			RespondWith(responders.Status(200)))
		mustGet(t, s.URL("/warm"))
	})

	require.NoError(t, pool.Shutdown())

	// The listener is released; a second Shutdown has nothing to do.
	require.NoError(t, pool.Shutdown())
}

func TestNewServerPool_PanicsOnNonPositiveSize(t *testing.T) {
	assert.Panics(t, func() { httptest.NewServerPool(0) })
	assert.Panics(t, func() { httptest.NewServerPool(-1) })
}

func TestServerPool_OptionsApplyToPooledServers(t *testing.T) {
	pool := httptest.NewServerPool(1, httptest.WithAllowUnmatched())
	defer pool.Shutdown()

	t.Run("stray traffic tolerated", func(t *testing.T) {
		s := pool.Get(t)
		resp, _ := mustGet(t, s.URL("/uncovered"))
		assert.Equal(t, 500, resp.StatusCode)
		// VerifyAndClear in the pool's cleanup passes because the pool was
		// built with WithAllowUnmatched.
	})
}
