package responders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ggriffiniii/httptest"
)

// JSONResponder answers with a JSON-encoded value.
type JSONResponder struct {
	status int
	body   []byte
	err    error
}

var _ httptest.Responder = (*JSONResponder)(nil)

// JSON creates a responder answering 200 with v encoded as JSON and
// Content-Type: application/json. The value is encoded once, up front; if
// it cannot be encoded, the responder answers 500 with a body describing
// the failure rather than panicking mid-request.
func JSON(v any) *JSONResponder {
	body, err := json.Marshal(v)
	return &JSONResponder{status: http.StatusOK, body: body, err: err}
}

// WithStatus overrides the status code.
func (j *JSONResponder) WithStatus(code int) *JSONResponder {
	j.status = code
	return j
}

// Respond implements httptest.Responder.
func (j *JSONResponder) Respond(context.Context, *httptest.Request) *httptest.Response {
	if j.err != nil {
		return httptest.NewResponse(http.StatusInternalServerError).
			WithHeader("Content-Type", "application/json").
			WithBody(fmt.Sprintf(`{"error":"response_encoding_failed","message":%q}`, j.err.Error()))
	}
	return httptest.NewResponse(j.status).
		WithHeader("Content-Type", "application/json").
		WithBytes(j.body)
}
