package httptest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/ggriffiniii/httptest/logging"
	"github.com/ggriffiniii/httptest/requestlog"
)

// defaultDrainTimeout bounds how long Stop waits for in-flight requests
// before forcibly closing their connections.
const defaultDrainTimeout = 5 * time.Second

// defaultLogCapacity is the request history size before old entries are
// evicted. The unmatched-request list used by verification is kept separately
// and never evicted.
const defaultLogCapacity = 1000

// Server is the mock HTTP server. It listens on a local TCP address, serves
// HTTP/1.1 and cleartext HTTP/2, dispatches each request through the
// expectation registry, and verifies expectations at teardown.
//
// Create one with New (library use) or Start (test use), register
// expectations with Expect, and point the client under test at URL.
type Server struct {
	addr           string
	drainTimeout   time.Duration
	allowUnmatched bool
	log            *slog.Logger
	reqLog         requestlog.Store

	registry *registry

	mu       sync.Mutex
	started  bool
	listener net.Listener
	httpSrv  *http.Server
	cancel   context.CancelFunc

	stopOnce sync.Once
	stopDone chan struct{}
	stopErr  error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for per-request diagnostics. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithAddr sets the listen address. The default "127.0.0.1:0" picks an
// ephemeral port on loopback.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithDrainTimeout bounds how long Stop waits for in-flight requests to
// finish before forcibly dropping their connections.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.drainTimeout = d
	}
}

// WithAllowUnmatched tolerates requests that match no expectation: they
// still receive the synthetic error response, but no longer fail
// verification.
func WithAllowUnmatched() Option {
	return func(s *Server) {
		s.allowUnmatched = true
	}
}

// WithRequestLog replaces the request history store.
func WithRequestLog(store requestlog.Store) Option {
	return func(s *Server) {
		s.reqLog = store
	}
}

// New creates an unstarted Server.
func New(opts ...Option) *Server {
	s := &Server{
		addr:         "127.0.0.1:0",
		drainTimeout: defaultDrainTimeout,
		log:          logging.Nop(),
		registry:     &registry{},
		stopDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reqLog == nil {
		s.reqLog = requestlog.NewMemoryStore(defaultLogCapacity)
	}
	return s
}

// Expect registers an expectation. Registration order is significant:
// selection scans earliest-first, so register specific expectations before
// catch-alls. Callable any time before teardown.
func (s *Server) Expect(e *Expectation) {
	s.registry.add(e)
}

// listen binds the listener and prepares the HTTP server. It does not start
// serving.
func (s *Server) listen() (net.Listener, *http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, nil, errors.New("httptest: server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("httptest: bind %s: %w", s.addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	// h2c upgrades cleartext HTTP/2 connections; HTTP/1.1 passes through
	// untouched. No TLS anywhere.
	srv := &http.Server{
		Handler: h2c.NewHandler(http.HandlerFunc(s.handle), &http2.Server{}),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.listener = ln
	s.httpSrv = srv
	s.cancel = cancel
	s.started = true
	s.log.Info("mock server listening", "addr", ln.Addr().String())
	return ln, srv, nil
}

// Start binds the configured address and begins serving in the background.
// A bind failure is the only error; anything after a successful bind is
// reported through the logger. Start may be called once.
func (s *Server) Start() error {
	ln, srv, err := s.listen()
	if err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("mock server exited", "error", err)
		}
	}()
	return nil
}

// Run binds and serves until ctx is cancelled, then performs the same
// graceful stop as Stop. It is the blocking entrypoint used by the httptestd
// command. A serve failure cancels the group and is returned.
func (s *Server) Run(ctx context.Context) error {
	ln, srv, err := s.listen()
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return s.Stop()
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return g.Wait()
}

// Stop shuts the server down: it stops accepting connections, waits up to
// the drain timeout for in-flight requests to finish, then forcibly closes
// whatever remains and cancels any responder still delaying. Stop is
// idempotent; concurrent callers all wait for the same shutdown and receive
// the same result. Stopping a server that never started is a no-op.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		defer close(s.stopDone)
		s.stopErr = s.doStop()
	})
	<-s.stopDone
	return s.stopErr
}

func (s *Server) doStop() error {
	s.mu.Lock()
	srv := s.httpSrv
	cancel := s.cancel
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, release := context.WithTimeout(context.Background(), s.drainTimeout)
	defer release()
	err := srv.Shutdown(ctx)

	// Cancel the base context so delaying responders stop waiting, then
	// force-close any connection that outlived the drain window.
	cancel()
	if err != nil {
		s.log.Warn("drain timeout elapsed, closing remaining connections", "timeout", s.drainTimeout)
		if cerr := srv.Close(); cerr != nil {
			return cerr
		}
		return nil
	}
	s.log.Info("mock server stopped")
	return nil
}

// Close stops the server and verifies every expectation, returning the
// aggregated verification report if any constraint was violated or any
// unmatched request arrived.
func (s *Server) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	return s.Verify()
}

// Verify evaluates every expectation's hit count against its constraint and,
// unless unmatched requests are allowed, treats recorded unmatched traffic
// as a failure. All problems are aggregated into one *VerifyError; a nil
// result means everything was satisfied. The server keeps running; use Close
// to stop and verify together.
func (s *Server) Verify() error {
	if verr := s.registry.verify(s.allowUnmatched); verr != nil {
		return verr
	}
	return nil
}

// VerifyAndClear verifies like Verify and then resets the server: all
// expectations, hit counts, unmatched records, and the request history are
// dropped while the listener keeps serving. Used to reuse one server across
// tests (see ServerPool).
func (s *Server) VerifyAndClear() error {
	err := s.Verify()
	s.registry.clear()
	s.reqLog.Clear()
	return err
}

// Addr returns the bound address, e.g. "127.0.0.1:41305". Empty before
// Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Port returns the bound TCP port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL joins the server's base URL with path, e.g. URL("/users/1") returns
// "http://127.0.0.1:41305/users/1". A missing leading slash is added.
func (s *Server) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + s.Addr() + path
}

// Requests returns the request history recorded so far, oldest first.
func (s *Server) Requests() []*requestlog.Entry {
	return s.reqLog.List(nil)
}

// UnmatchedRequests returns the requests no expectation was eligible for.
func (s *Server) UnmatchedRequests() []*Request {
	return s.registry.unmatchedSnapshot()
}
