package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONPath(t *testing.T) {
	body := `{
		"user": {"id": 7, "name": "bob"},
		"items": [
			{"sku": "A-100", "qty": 2},
			{"sku": "B-200", "qty": 1}
		]
	}`

	tests := []struct {
		name  string
		path  string
		inner any
		want  bool
	}{
		{"nested scalar", "$.user.id", 7, true},
		{"nested scalar mismatch", "$.user.id", 8, false},
		{"string leaf", "$.user.name", "bob", true},
		{"wildcard any element", "$.items[*].sku", "B-200", true},
		{"wildcard no element", "$.items[*].sku", "C-300", false},
		{"index", "$.items[0].qty", 2, true},
		{"path locates nothing", "$.missing.key", 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req("POST", "/orders", "")
			r.Body = []byte(body)
			assert.Equal(t, tt.want, JSONPath(tt.path, EqValue(tt.inner)).Matches(r))
		})
	}
}

func TestJSONPath_InvalidBodyNeverMatches(t *testing.T) {
	r := req("POST", "/orders", "")
	r.Body = []byte("not json")

	assert.False(t, JSONPath("$.user.id", EqValue(7)).Matches(r))
}

func TestJSONPath_ComposesWithInnerMatchers(t *testing.T) {
	r := req("POST", "/orders", "")
	r.Body = []byte(`{"trace":"abc-123-def"}`)

	m := JSONPath("$.trace", AsString(Contains("123")))
	assert.True(t, m.Matches(r))

	assert.False(t, JSONPath("$.trace", AsString(Contains("999"))).Matches(r))
}

func TestJSONPath_PanicsOnBadExpression(t *testing.T) {
	assert.Panics(t, func() { JSONPath("$[", EqValue(1)) })
}
