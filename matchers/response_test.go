package matchers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ggriffiniii/httptest"
)

func TestResponseMatchers(t *testing.T) {
	resp := httptest.NewResponse(http.StatusCreated).
		WithHeader("Content-Type", "application/json").
		WithBody(`{"id":7}`)

	assert.True(t, StatusCode(Eq(201)).Matches(resp))
	assert.False(t, StatusCode(Eq(200)).Matches(resp))

	assert.True(t, ResponseHeader("content-type", Contains("json")).Matches(resp))
	assert.False(t, ResponseHeader("Content-Type", Eq("text/html")).Matches(resp))
	assert.False(t, ResponseHeader("Location", Contains("")).Matches(resp))

	assert.True(t, ResponseBody(Contains(`"id"`)).Matches(resp))
	assert.False(t, ResponseBody(Eq("")).Matches(resp))
}
