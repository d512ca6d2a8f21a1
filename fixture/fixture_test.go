package fixture_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggriffiniii/httptest"
	"github.com/ggriffiniii/httptest/fixture"
)

// serve parses doc, installs the expectations on a fresh server, and returns
// it. Unmatched traffic is tolerated so tests can probe non-matching
// requests without tripping teardown.
func serve(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	es, err := fixture.Parse([]byte(doc))
	require.NoError(t, err)

	s := httptest.New(httptest.WithAllowUnmatched())
	require.NoError(t, s.Start())
	t.Cleanup(func() { s.Stop() })
	fixture.Install(s, es...)
	return s
}

func doGet(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func doPost(t *testing.T, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func TestParse_RoundTrip(t *testing.T) {
	s := serve(t, `
expectations:
  - name: get-user
    request:
      method: GET
      path: /users/1
    times: {exactly: 2}
    response:
      status: 200
      json: {id: 1, name: ada}
  - name: create-user
    request:
      method: POST
      path_regex: ^/users$
      headers: {Content-Type: application/json}
      body_contains: ada
    response:
      status: 201
      headers: {Location: /users/2}
      body: created
`)

	for i := 0; i < 2; i++ {
		resp, body := doGet(t, s.URL("/users/1"))
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"id": 1, "name": "ada"}`, body)
	}

	resp, body := doPost(t, s.URL("/users"), "application/json", `{"name": "ada"}`)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "/users/2", resp.Header.Get("Location"))
	assert.Equal(t, "created", body)

	assert.NoError(t, s.Verify())
}

func TestParse_Defaults(t *testing.T) {
	s := serve(t, `
expectations:
  - request: {path: /ping}
`)

	resp, body := doGet(t, s.URL("/ping"))
	assert.Equal(t, 200, resp.StatusCode, "response defaults to a bare 200")
	assert.Empty(t, body)
	assert.NoError(t, s.Verify(), "times defaults to exactly once")

	// A second hit finds the expectation saturated.
	resp, _ = doGet(t, s.URL("/ping"))
	assert.Equal(t, 500, resp.StatusCode)
}

func TestParse_EmptyRequestMatchesEverything(t *testing.T) {
	s := serve(t, `
expectations:
  - request: {}
    times: "any"
    response: {body: caught}
`)

	for _, path := range []string{"/a", "/b?x=1"} {
		resp, body := doGet(t, s.URL(path))
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "caught", body)
	}
}

func TestParse_MethodIsCaseInsensitive(t *testing.T) {
	s := serve(t, `
expectations:
  - request: {method: get, path: /x}
`)

	resp, _ := doGet(t, s.URL("/x"))
	assert.Equal(t, 200, resp.StatusCode)
}

func TestParse_QueryAndHeaders(t *testing.T) {
	s := serve(t, `
expectations:
  - request:
      path: /search
      query: {page: "2", sort: name}
      headers: {Accept: application/json}
    times: "any"
    response: {body: found}
`)

	req, err := http.NewRequest("GET", s.URL("/search?page=2&sort=name"), nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	// Missing one of the listed conditions: no match.
	resp, _ = doGet(t, s.URL("/search?page=2&sort=name"))
	assert.Equal(t, 500, resp.StatusCode, "missing Accept header")

	req, err = http.NewRequest("GET", s.URL("/search?page=3&sort=name"), nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 500, resp.StatusCode, "wrong page value")
}

func TestParse_BodyJSONIgnoresKeyOrder(t *testing.T) {
	s := serve(t, `
expectations:
  - request:
      path: /orders
      body_json: {sku: a-1, qty: 2}
    times: "any"
`)

	resp, _ := doPost(t, s.URL("/orders"), "application/json", `{"qty": 2, "sku": "a-1"}`)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doPost(t, s.URL("/orders"), "application/json", `{"qty": 3, "sku": "a-1"}`)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestParse_JSONPathAndSchema(t *testing.T) {
	s := serve(t, `
expectations:
  - request:
      path: /events
      json_path: {"$.user.id": 7}
      json_schema: |
        {"type": "object", "required": ["user"]}
    times: "any"
`)

	resp, _ := doPost(t, s.URL("/events"), "application/json", `{"user": {"id": 7}}`)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doPost(t, s.URL("/events"), "application/json", `{"user": {"id": 8}}`)
	assert.Equal(t, 500, resp.StatusCode, "wrong value at the path")

	resp, _ = doPost(t, s.URL("/events"), "application/json", `{"actor": 7}`)
	assert.Equal(t, 500, resp.StatusCode, "schema requires a user field")
}

func TestParse_Cycle(t *testing.T) {
	s := serve(t, `
expectations:
  - request: {path: /flaky}
    times: "any"
    response:
      cycle:
        - {status: 503, body: busy}
        - {status: 200, body: ok}
`)

	resp, body := doGet(t, s.URL("/flaky"))
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, "busy", body)

	for i := 0; i < 2; i++ {
		resp, body = doGet(t, s.URL("/flaky"))
		assert.Equal(t, 200, resp.StatusCode, "the last step repeats")
		assert.Equal(t, "ok", body)
	}
}

func TestParse_Delay(t *testing.T) {
	s := serve(t, `
expectations:
  - request: {path: /slow}
    response: {body: done, delay: 60ms}
`)

	begin := time.Now()
	resp, body := doGet(t, s.URL("/slow"))
	assert.GreaterOrEqual(t, time.Since(begin), 50*time.Millisecond)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "done", body)
}

func TestParse_TimesForms(t *testing.T) {
	tests := []struct {
		name  string
		times string
		hits  int
		ok    bool
	}{
		{"exactly met", "{exactly: 2}", 2, true},
		{"exactly under", "{exactly: 2}", 1, false},
		{"at_least met", "{at_least: 2}", 3, true},
		{"at_least under", "{at_least: 2}", 1, false},
		{"at_most zero hits", "{at_most: 2}", 0, true},
		{"at_most at bound", "{at_most: 2}", 2, true},
		{"between inside", "{between: [1, 3]}", 2, true},
		{"between under", "{between: [1, 3]}", 0, false},
		{"any zero", `"any"`, 0, true},
		{"any many", `"any"`, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fmt.Sprintf("expectations:\n  - request: {path: /x}\n    times: %s\n", tt.times)
			s := serve(t, doc)

			for i := 0; i < tt.hits; i++ {
				resp, _ := doGet(t, s.URL("/x"))
				require.Equal(t, 200, resp.StatusCode)
			}

			if tt.ok {
				assert.NoError(t, s.Verify())
			} else {
				assert.Error(t, s.Verify())
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"unknown field",
			"expectations:\n  - request: {path: /x}\n    respnse: {status: 200}\n",
			"respnse",
		},
		{
			"path and path_regex",
			"expectations:\n  - request: {path: /x, path_regex: ^/x$}\n",
			"mutually exclusive",
		},
		{
			"two body conditions",
			"expectations:\n  - request: {body_equals: a, body_contains: b}\n",
			"mutually exclusive",
		},
		{
			"bad path_regex",
			"expectations:\n  - request: {path_regex: '('}\n",
			"path_regex",
		},
		{
			"bad body_regex",
			"expectations:\n  - request: {body_regex: '('}\n",
			"body_regex",
		},
		{
			"bad json_path",
			`expectations:` + "\n" + `  - request:` + "\n" + `      json_path: {"$[": 1}` + "\n",
			"json_path",
		},
		{
			"bad json_schema",
			"expectations:\n  - request:\n      json_schema: 'not json'\n",
			"json_schema",
		},
		{
			"empty times mapping",
			"expectations:\n  - request: {path: /x}\n    times: {}\n",
			"times: want one of",
		},
		{
			"two times constraints",
			"expectations:\n  - request: {path: /x}\n    times: {exactly: 1, at_most: 2}\n",
			"mutually exclusive",
		},
		{
			"unknown times scalar",
			"expectations:\n  - request: {path: /x}\n    times: sometimes\n",
			`unknown times value "sometimes"`,
		},
		{
			"between wrong arity",
			"expectations:\n  - request: {path: /x}\n    times: {between: [1]}\n",
			"between",
		},
		{
			"between inverted",
			"expectations:\n  - request: {path: /x}\n    times: {between: [3, 1]}\n",
			"invalid range",
		},
		{
			"negative exactly",
			"expectations:\n  - request: {path: /x}\n    times: {exactly: -1}\n",
			"negative",
		},
		{
			"body and json response",
			"expectations:\n  - request: {path: /x}\n    response: {body: a, json: {b: 1}}\n",
			"mutually exclusive",
		},
		{
			"bad delay",
			"expectations:\n  - request: {path: /x}\n    response: {delay: fast}\n",
			"delay",
		},
		{
			"status out of range",
			"expectations:\n  - request: {path: /x}\n    response: {status: 99}\n",
			"out of range",
		},
		{
			"cycle with scalar fields",
			"expectations:\n  - request: {path: /x}\n    response:\n      status: 200\n      cycle:\n        - {status: 503}\n",
			"cycle replaces",
		},
		{
			"nested cycle",
			"expectations:\n  - request: {path: /x}\n    response:\n      cycle:\n        - cycle:\n            - {status: 200}\n",
			"cannot nest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_ErrorNamesExpectation(t *testing.T) {
	_, err := fixture.Parse([]byte(`
expectations:
  - name: get-user
    request: {path: /x}
    times: {exactly: -1}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expectations[0] (get-user)")
}

func TestParse_EmptyDocuments(t *testing.T) {
	_, err := fixture.Parse(nil)
	assert.ErrorIs(t, err, fixture.ErrNoExpectations)

	_, err = fixture.Parse([]byte("expectations: []\n"))
	assert.ErrorIs(t, err, fixture.ErrNoExpectations)

	_, err = fixture.Parse([]byte("{{not yaml"))
	assert.ErrorIs(t, err, fixture.ErrInvalidYAML)
}
