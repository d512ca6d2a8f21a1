package matchers

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ggriffiniii/httptest"
)

// Method projects the request method through inner.
func Method(inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("method("+inner.String()+")", func(r *httptest.Request) bool {
		return inner.Matches(r.Method)
	})
}

// MethodIs matches requests with exactly the given method.
func MethodIs(method string) httptest.Matcher[*httptest.Request] {
	return Method(Eq(method))
}

// Path projects the request path through inner.
func Path(inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("path("+inner.String()+")", func(r *httptest.Request) bool {
		return inner.Matches(r.Path)
	})
}

// PathIs matches requests with exactly the given path.
func PathIs(path string) httptest.Matcher[*httptest.Request] {
	return Path(Eq(path))
}

// MethodPath matches requests with exactly the given method and path. It is
// the everyday matcher:
//
//	srv.Expect(httptest.Matching(matchers.MethodPath("GET", "/users/1")). ...)
func MethodPath(method, path string) httptest.Matcher[*httptest.Request] {
	return httptest.AllOf(MethodIs(method), PathIs(path))
}

// Query projects the values of one query parameter through inner; the
// request matches when any value of that parameter satisfies it. Requests
// without the parameter never match.
func Query(key string, inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	desc := fmt.Sprintf("query(%q, %s)", key, inner)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		vals, ok := r.Query()[key]
		if !ok {
			return false
		}
		for _, v := range vals {
			if inner.Matches(v) {
				return true
			}
		}
		return false
	})
}

// HasQuery matches requests carrying the query parameter, whatever its value.
func HasQuery(key string) httptest.Matcher[*httptest.Request] {
	desc := fmt.Sprintf("hasQuery(%q)", key)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		_, ok := r.Query()[key]
		return ok
	})
}

// URLDecoded projects the full decoded query string through inner, for
// matchers that need to see several parameters at once (ParamEq, HasParam).
func URLDecoded(inner httptest.Matcher[url.Values]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("urlDecoded("+inner.String()+")", func(r *httptest.Request) bool {
		return inner.Matches(r.Query())
	})
}

// ParamEq matches decoded values where any instance of the key equals value.
// Compose under URLDecoded or FormDecoded.
func ParamEq(key, value string) httptest.Matcher[url.Values] {
	desc := fmt.Sprintf("param(%q = %q)", key, value)
	return httptest.MatchFunc(desc, func(vs url.Values) bool {
		for _, v := range vs[key] {
			if v == value {
				return true
			}
		}
		return false
	})
}

// HasParam matches decoded values where the key is present.
func HasParam(key string) httptest.Matcher[url.Values] {
	desc := fmt.Sprintf("hasParam(%q)", key)
	return httptest.MatchFunc(desc, func(vs url.Values) bool {
		_, ok := vs[key]
		return ok
	})
}

// Header projects the values of one request header through inner; the
// request matches when any instance of that header satisfies it. Header
// names are case-insensitive.
func Header(key string, inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	desc := fmt.Sprintf("header(%q, %s)", key, inner)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		for _, v := range r.Header.Values(key) {
			if inner.Matches(v) {
				return true
			}
		}
		return false
	})
}

// HasHeader matches requests carrying the header, whatever its value.
func HasHeader(key string) httptest.Matcher[*httptest.Request] {
	desc := fmt.Sprintf("hasHeader(%q)", key)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		return len(r.Header.Values(key)) > 0
	})
}

// Body projects the request body as a string through inner.
func Body(inner httptest.Matcher[string]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("body("+inner.String()+")", func(r *httptest.Request) bool {
		return inner.Matches(string(r.Body))
	})
}

// BodyBytes is the raw-bytes escape hatch for bodies that aren't text.
func BodyBytes(desc string, fn func([]byte) bool) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("bodyBytes("+desc+")", func(r *httptest.Request) bool {
		return fn(r.Body)
	})
}

// JSONDecoded decodes the request body as JSON and projects the decoded
// value (map[string]any, []any, string, float64, bool, or nil) through
// inner. Bodies that aren't valid JSON never match.
func JSONDecoded(inner httptest.Matcher[any]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("jsonDecoded("+inner.String()+")", func(r *httptest.Request) bool {
		var decoded any
		if err := json.Unmarshal(r.Body, &decoded); err != nil {
			return false
		}
		return inner.Matches(decoded)
	})
}

// FormDecoded decodes the request body as application/x-www-form-urlencoded
// and projects the values through inner. Undecodable bodies never match.
func FormDecoded(inner httptest.Matcher[url.Values]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("formDecoded("+inner.String()+")", func(r *httptest.Request) bool {
		vals, err := url.ParseQuery(string(r.Body))
		if err != nil {
			return false
		}
		return inner.Matches(vals)
	})
}
