package httptest

import (
	"net/http"
	"net/url"
)

// Request is an immutable snapshot of an inbound HTTP request, taken once per
// request after the body has been fully read. Matchers and responders receive
// the same snapshot; neither may modify it.
type Request struct {
	// Method is the HTTP method, e.g. "GET".
	Method string

	// Path is the unescaped request path, e.g. "/users/1".
	Path string

	// RawQuery is the query string without the leading "?".
	RawQuery string

	// Proto is the protocol version, e.g. "HTTP/1.1" or "HTTP/2.0".
	Proto string

	// Header holds the request headers. Keys are canonicalized by net/http
	// and values are multi-valued.
	Header http.Header

	// Body is the full request body.
	Body []byte

	// RemoteAddr is the client's network address.
	RemoteAddr string
}

func newRequest(r *http.Request, body []byte) *Request {
	return &Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		RawQuery:   r.URL.RawQuery,
		Proto:      r.Proto,
		Header:     r.Header.Clone(),
		Body:       body,
		RemoteAddr: r.RemoteAddr,
	}
}

// URL returns the request target as a parsed URL (path and query only; a
// mock server has no notion of scheme or host per request).
func (r *Request) URL() *url.URL {
	return &url.URL{Path: r.Path, RawQuery: r.RawQuery}
}

// Query returns the parsed query parameters. A query string that fails to
// parse yields empty values, never an error.
func (r *Request) Query() url.Values {
	vals, err := url.ParseQuery(r.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return vals
}

// String renders the request line, e.g. "GET /users/1?page=2".
func (r *Request) String() string {
	target := r.Path
	if r.RawQuery != "" {
		target += "?" + r.RawQuery
	}
	return r.Method + " " + target
}
