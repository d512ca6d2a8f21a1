package requestlog

import (
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps how much of a request body is retained per entry.
// Matching always sees the full body; only the history copy is truncated.
const maxLoggedBody = 10 << 10 // 10 KiB

// Entry captures one request/response exchange for later inspection.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Headers are the request headers (multi-value).
	Headers http.Header `json:"headers,omitempty"`

	// Body is the request body content, truncated past 10KB.
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr,omitempty"`

	// Matched reports whether any expectation was selected for the request.
	Matched bool `json:"matched"`

	// Expectation describes the expectation that matched, empty if none.
	Expectation string `json:"expectation,omitempty"`

	// Status is the response status code sent back.
	Status int `json:"status"`

	// Duration is the request processing time.
	Duration time.Duration `json:"duration"`
}

// SetBody records the request body, truncating past the retention cap while
// preserving the original size.
func (e *Entry) SetBody(body []byte) {
	e.BodySize = len(body)
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}
	e.Body = string(body)
}

// Logger is the minimal interface for recording entries. The server's
// request handler logs through this; anything that can record an entry
// satisfies it.
type Logger interface {
	Log(entry *Entry)
}

// Store is the interface for request history storage. Store embeds Logger,
// so any Store can be used where a Logger is expected.
type Store interface {
	Logger

	// Get retrieves a log entry by ID, nil if absent.
	Get(id string) *Entry

	// List returns entries oldest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all log entries.
	Clear()

	// Count returns the number of log entries.
	Count() int
}

// Filter defines criteria for narrowing List results. Zero-valued fields
// match everything.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// Matched filters by whether an expectation was selected.
	Matched *bool

	// Status filters by response status code.
	Status int

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of matching entries to skip.
	Offset int
}

// matches reports whether entry satisfies every set filter field.
func (f *Filter) matches(entry *Entry) bool {
	if f.Method != "" && entry.Method != f.Method {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(entry.Path, f.Path) {
		return false
	}
	if f.Matched != nil && entry.Matched != *f.Matched {
		return false
	}
	if f.Status != 0 && entry.Status != f.Status {
		return false
	}
	return true
}
