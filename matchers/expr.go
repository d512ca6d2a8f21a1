package matchers

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/ggriffiniii/httptest"
)

// Expr matches requests with an expr-lang boolean expression, for the
// conditions that would be unwieldy as composed matchers:
//
//	matchers.Expr(`method == "POST" && "gzip" in header["Accept-Encoding"]`)
//	matchers.Expr(`len(body) > 1024 || query["force"] != nil`)
//
// The expression sees method and path and body as strings, and query and
// header as map[string][]string. It is compiled once, at construction; a
// compile failure (including a non-boolean result type) panics. Runtime
// evaluation errors never match.
func Expr(src string) httptest.Matcher[*httptest.Request] {
	program, err := expr.Compile(src, expr.Env(exprEnv(&httptest.Request{})), expr.AsBool())
	if err != nil {
		panic(fmt.Sprintf("matchers: Expr: compile %q: %v", src, err))
	}
	desc := fmt.Sprintf("expr(%q)", src)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		out, err := expr.Run(program, exprEnv(r))
		if err != nil {
			return false
		}
		ok, isBool := out.(bool)
		return isBool && ok
	})
}

// exprEnv is the variable set expressions evaluate against.
func exprEnv(r *httptest.Request) map[string]any {
	return map[string]any{
		"method": r.Method,
		"path":   r.Path,
		"query":  map[string][]string(r.Query()),
		"header": map[string][]string(r.Header),
		"body":   string(r.Body),
	}
}
