package responders

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ggriffiniii/httptest"
)

// FixedResponder answers every request with the same canned response.
type FixedResponder struct {
	status int
	header http.Header
	body   []byte
}

var _ httptest.Responder = (*FixedResponder)(nil)

// Status creates a responder answering with the given status code and an
// empty body. Chain WithBody, WithBytes, and WithHeader to fill it in.
func Status(code int) *FixedResponder {
	return &FixedResponder{status: code, header: http.Header{}}
}

// WithBody sets the response body.
func (f *FixedResponder) WithBody(body string) *FixedResponder {
	f.body = []byte(body)
	return f
}

// WithBytes sets the response body from raw bytes.
func (f *FixedResponder) WithBytes(body []byte) *FixedResponder {
	f.body = body
	return f
}

// WithHeader adds a response header. Calling it twice with the same key
// produces a multi-valued header.
func (f *FixedResponder) WithHeader(key, value string) *FixedResponder {
	f.header.Add(key, value)
	return f
}

// Respond implements httptest.Responder.
func (f *FixedResponder) Respond(context.Context, *httptest.Request) *httptest.Response {
	resp := httptest.NewResponse(f.status)
	resp.Header = f.header.Clone()
	resp.Body = f.body
	return resp
}

// URLEncoded answers 200 with values encoded as
// application/x-www-form-urlencoded.
func URLEncoded(values url.Values) *FixedResponder {
	return Status(http.StatusOK).
		WithHeader("Content-Type", "application/x-www-form-urlencoded").
		WithBody(values.Encode())
}

// Func adapts a function into a responder, for responses computed from the
// request:
//
//	responders.Func(func(ctx context.Context, req *httptest.Request) *httptest.Response {
//	    return httptest.NewResponse(200).WithBody("you sent " + req.String())
//	})
func Func(fn func(ctx context.Context, req *httptest.Request) *httptest.Response) httptest.Responder {
	return httptest.ResponderFunc(fn)
}
