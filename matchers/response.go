package matchers

import (
	"fmt"

	"github.com/ggriffiniii/httptest"
)

// Response matchers, for asserting on responses captured by the caller.
// They compose with the same algebra as request matchers.

// StatusCode projects the response status code through inner.
func StatusCode(inner httptest.Matcher[int]) httptest.Matcher[*httptest.Response] {
	return httptest.MatchFunc("statusCode("+inner.String()+")", func(resp *httptest.Response) bool {
		return inner.Matches(resp.StatusCode)
	})
}

// ResponseHeader projects the values of one response header through inner;
// any instance satisfying it matches.
func ResponseHeader(key string, inner httptest.Matcher[string]) httptest.Matcher[*httptest.Response] {
	desc := fmt.Sprintf("responseHeader(%q, %s)", key, inner)
	return httptest.MatchFunc(desc, func(resp *httptest.Response) bool {
		for _, v := range resp.Header.Values(key) {
			if inner.Matches(v) {
				return true
			}
		}
		return false
	})
}

// ResponseBody projects the response body as a string through inner.
func ResponseBody(inner httptest.Matcher[string]) httptest.Matcher[*httptest.Response] {
	return httptest.MatchFunc("responseBody("+inner.String()+")", func(resp *httptest.Response) bool {
		return inner.Matches(string(resp.Body))
	})
}
