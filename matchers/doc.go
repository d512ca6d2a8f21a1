// Package matchers provides the leaf matchers that expectations are built
// from. Each constructor returns an httptest.Matcher projecting one part of
// a request (method, path, query, header, body) through an inner value
// matcher, so the same predicates compose everywhere:
//
//	matchers.MethodPath("GET", "/users/1")
//	matchers.Header("Accept", matchers.Contains("json"))
//	matchers.Query("page", matchers.Regex(`^\d+$`))
//	matchers.JSONDecoded(matchers.EqValue(map[string]any{"name": "bob"}))
//	matchers.JSONPath("$.user.id", matchers.EqValue(7))
//
// Combine leaves with httptest.AllOf, httptest.AnyOf, and httptest.Not.
//
// Matchers never fail at match time: a body that isn't valid JSON simply
// doesn't match JSONDecoded, a missing header doesn't match Header, and so
// on. Construction-time misuse (an unparsable regex, JSONPath, schema, or
// expression) panics, the way regexp.MustCompile does.
package matchers
