package matchers

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/ggriffiniii/httptest"
)

// JSONPath decodes the request body as JSON, evaluates a JSONPath expression
// against it, and projects every located value through inner; the request
// matches when any located value satisfies it.
//
//	matchers.JSONPath("$.user.id", matchers.EqValue(7))
//	matchers.JSONPath("$.items[*].sku", matchers.EqValue("A-100"))
//
// Bodies that aren't valid JSON and paths that locate nothing never match.
// An unparsable path expression panics at construction.
func JSONPath(path string, inner httptest.Matcher[any]) httptest.Matcher[*httptest.Request] {
	expr, err := jp.ParseString(path)
	if err != nil {
		panic(fmt.Sprintf("matchers: JSONPath: invalid expression %q: %v", path, err))
	}
	desc := fmt.Sprintf("jsonPath(%q, %s)", path, inner)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		var data any
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return false
		}
		for _, located := range expr.Get(data) {
			if inner.Matches(located) {
				return true
			}
		}
		return false
	})
}
