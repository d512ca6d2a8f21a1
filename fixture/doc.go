// Package fixture loads expectations from YAML files, so a suite (or the
// httptestd command) can declare its mock traffic without writing Go.
//
// A fixture file holds one document with a list of expectation definitions:
//
//	expectations:
//	  - name: get-user
//	    request:
//	      method: GET
//	      path: /users/1
//	    times: {exactly: 2}
//	    response:
//	      status: 200
//	      json: {id: 1, name: ada}
//
// The request section accepts method, path or path_regex, query and headers
// maps, at most one of body_equals / body_contains / body_regex / body_json,
// json_path (a map of JSONPath expression to expected value), and
// json_schema. All listed conditions must hold for the expectation to match.
// An empty request section matches every request.
//
// times takes {exactly: n}, {at_least: n}, {at_most: n}, {between: [lo, hi]}
// or the string "any"; when omitted the expectation must be hit exactly once.
//
// The response section takes status (default 200), headers, body or json,
// and an optional delay (a Go duration string). A cycle list replaces the
// scalar fields and serves its entries in order, repeating the last; each
// cycle step is a response definition of its own and may carry its own
// delay.
//
// Unknown keys are rejected, so typos fail at load time instead of silently
// never matching.
package fixture
