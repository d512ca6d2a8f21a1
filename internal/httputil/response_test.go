package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusInternalServerError, "no_expectation_matched", "no expectation matched GET /users")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "no_expectation_matched", result["error"])
	assert.Equal(t, "no expectation matched GET /users", result["message"])
}
