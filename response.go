package httptest

import "net/http"

// Response is the reply a Responder produces for a matched request. The
// server writes status, headers, and body exactly as given; it never edits
// them. A responder may return the same Response for every call, so treat a
// returned Response as read-only.
type Response struct {
	// StatusCode is the HTTP status code to send.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the response body.
	Body []byte
}

// NewResponse returns a Response with the given status code, an empty header
// map, and no body.
func NewResponse(status int) *Response {
	return &Response{
		StatusCode: status,
		Header:     make(http.Header),
	}
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// WithBody sets the body from a string and returns the response for chaining.
func (r *Response) WithBody(body string) *Response {
	r.Body = []byte(body)
	return r
}

// WithBytes sets the body and returns the response for chaining.
func (r *Response) WithBytes(body []byte) *Response {
	r.Body = body
	return r
}
