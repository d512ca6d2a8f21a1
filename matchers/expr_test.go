package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpr(t *testing.T) {
	r := req("POST", "/users", "force=1")
	r.Header.Set("Accept-Encoding", "gzip")
	r.Body = []byte(`{"name":"bob"}`)

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"method comparison", `method == "POST"`, true},
		{"method mismatch", `method == "GET"`, false},
		{"path prefix", `path startsWith "/users"`, true},
		{"header membership", `"gzip" in header["Accept-Encoding"]`, true},
		{"query presence", `query["force"] != nil`, true},
		{"query absence", `query["dry_run"] != nil`, false},
		{"body length", `len(body) > 5`, true},
		{"compound condition", `method == "POST" && len(body) > 0 && query["force"] != nil`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expr(tt.src).Matches(r))
		})
	}
}

func TestExpr_RuntimeErrorNeverMatches(t *testing.T) {
	r := req("GET", "/", "")

	// Indexing a missing parameter's value list fails at runtime; the
	// request simply doesn't match.
	assert.False(t, Expr(`query["missing"][0] == "x"`).Matches(r))
}

func TestExpr_PanicsAtConstruction(t *testing.T) {
	assert.Panics(t, func() { Expr(`method ==`) }, "syntax error")
	assert.Panics(t, func() { Expr(`len(body)`) }, "non-boolean result type")
	assert.Panics(t, func() { Expr(`no_such_var == 1`) }, "unknown variable")
}
