package httptest

import (
	"sync"
	"testing"
)

// ServerPool shares a bounded set of started servers across tests. Binding a
// listener per test is cheap but not free; with heavily parallel suites a
// pool keeps the number of live sockets fixed while still giving each test
// an isolated, verified server.
//
// Checked-out servers are verified and reset when the borrowing test
// finishes, then returned to the pool. Call Shutdown from TestMain after
// m.Run to release the listeners.
type ServerPool struct {
	opts []Option
	idle chan *Server

	mu      sync.Mutex
	created int
	max     int
}

// NewServerPool creates a pool that runs at most max servers, each built
// with opts. Panics if max is not positive.
func NewServerPool(max int, opts ...Option) *ServerPool {
	if max <= 0 {
		panic("httptest: NewServerPool: pool size must be positive")
	}
	return &ServerPool{
		opts: opts,
		idle: make(chan *Server, max),
		max:  max,
	}
}

// Get checks a server out of the pool for the duration of the test,
// starting a new one if the pool has capacity and blocking for a returned
// server otherwise. When the test finishes the server is verified, cleared,
// and returned to the pool; verification failures are reported on tb.
func (p *ServerPool) Get(tb testing.TB) *Server {
	tb.Helper()

	s, err := p.acquire()
	if err != nil {
		tb.Fatalf("failed to acquire pooled mock server: %v", err)
	}
	tb.Cleanup(func() {
		if err := s.VerifyAndClear(); err != nil {
			tb.Error(err)
		}
		p.idle <- s
	})
	return s
}

func (p *ServerPool) acquire() (*Server, error) {
	select {
	case s := <-p.idle:
		return s, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.max {
		p.created++
		p.mu.Unlock()
		s := New(p.opts...)
		if err := s.Start(); err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return s, nil
	}
	p.mu.Unlock()

	return <-p.idle, nil
}

// Shutdown stops every idle server. It expects all borrowed servers to have
// been returned, which is the case once every test using the pool has
// finished. The first stop error is returned.
func (p *ServerPool) Shutdown() error {
	var first error
	for {
		select {
		case s := <-p.idle:
			if err := s.Stop(); err != nil && first == nil {
				first = err
			}
		default:
			return first
		}
	}
}
