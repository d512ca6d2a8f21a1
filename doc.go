// Package httptest provides an in-process mock HTTP server for testing HTTP
// clients.
//
// Callers register expectations against a locally listening server, point the
// client under test at it, and let teardown verify that every expectation was
// satisfied. An expectation pairs three things: a request matcher, a
// call-count constraint, and a responder that produces the reply.
//
// # Basic Usage
//
//	func TestFetchUser(t *testing.T) {
//	    srv := httptest.Start(t)
//	    srv.Expect(httptest.Matching(matchers.MethodPath("GET", "/users/1")).
//	        Times(httptest.Exactly(1)).
//	        RespondWith(responders.JSON(map[string]any{"id": 1})))
//
//	    got, err := fetchUser(srv.URL("/users/1"))
//	    // ... assertions on got and err ...
//	}
//
// Start registers a cleanup hook that stops the server and verifies every
// expectation, failing the test with one aggregated report listing each
// violated call count and each request no expectation matched.
//
// # Selection
//
// Expectations are scanned in registration order and the first eligible one
// wins. An expectation is eligible while its matcher matches the request and
// its call-count constraint still permits another hit; once saturated it is
// skipped. Register specific expectations before broad catch-alls.
//
// Selection and counter increment happen as one atomic unit, so concurrent
// requests can never double-count against the same constraint.
//
// # Unmatched Requests
//
// A request no expectation is eligible for receives a synthetic 500 response
// and is recorded. Unmatched traffic fails verification by default; pass
// WithAllowUnmatched to tolerate it, or register an AnyTimes catch-all.
//
// # Subpackages
//
// Package matchers provides the leaf matchers (method, path, query, header,
// body, decoded-body projections and more); package responders provides the
// built-in responders (fixed, JSON, delaying, cycling); package fixture loads
// expectations from YAML files; package requestlog holds the per-server
// request history inspected for diagnostics.
package httptest
