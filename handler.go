package httptest

import (
	"io"
	"net/http"
	"time"

	"github.com/ggriffiniii/httptest/internal/httputil"
	"github.com/ggriffiniii/httptest/internal/id"
	"github.com/ggriffiniii/httptest/requestlog"
)

// maxBodyBytes caps how much of a request body is buffered for matching.
const maxBodyBytes = 10 << 20 // 10 MiB

// handle is the single entry point for every request the server receives.
// It buffers the body once, runs expectation selection, renders either the
// selected responder's response or the synthetic unmatched error, and
// records the exchange in the request history.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.log.Warn("failed to read request body", "method", r.Method, "path", r.URL.Path, "error", err)
		httputil.WriteError(w, http.StatusBadRequest, "unreadable_body", "failed to read request body")
		return
	}
	req := newRequest(r, body)

	exp, idx, ok := s.registry.dispatch(req)

	entry := &requestlog.Entry{
		ID:          id.Short(),
		Timestamp:   start,
		Method:      req.Method,
		Path:        req.Path,
		QueryString: req.RawQuery,
		Headers:     req.Header,
		RemoteAddr:  req.RemoteAddr,
		Matched:     ok,
	}
	entry.SetBody(req.Body)

	if !ok {
		s.log.Debug("no expectation matched", "method", req.Method, "path", req.Path)
		entry.Status = http.StatusInternalServerError
		entry.Duration = time.Since(start)
		s.reqLog.Log(entry)
		httputil.WriteError(w, http.StatusInternalServerError, "no_expectation_matched",
			"no expectation matched "+req.String())
		return
	}

	resp := exp.responder.Respond(r.Context(), req)
	if resp == nil {
		resp = NewResponse(http.StatusOK)
	}

	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		if _, err := w.Write(resp.Body); err != nil {
			s.log.Warn("failed to write response body", "error", err)
		}
	}

	entry.Expectation = exp.description()
	entry.Status = resp.StatusCode
	entry.Duration = time.Since(start)
	s.reqLog.Log(entry)
	s.log.Debug("request matched",
		"method", req.Method,
		"path", req.Path,
		"expectation", exp.description(),
		"index", idx,
		"status", resp.StatusCode,
		"duration", entry.Duration,
	)
}
