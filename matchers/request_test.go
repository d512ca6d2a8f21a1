package matchers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ggriffiniii/httptest"
)

func req(method, path, rawQuery string) *httptest.Request {
	return &httptest.Request{
		Method:   method,
		Path:     path,
		RawQuery: rawQuery,
		Header:   http.Header{},
	}
}

func TestMethodAndPath(t *testing.T) {
	r := req("GET", "/users/1", "")

	tests := []struct {
		name string
		m    httptest.Matcher[*httptest.Request]
		want bool
	}{
		{"MethodIs match", MethodIs("GET"), true},
		{"MethodIs mismatch", MethodIs("POST"), false},
		{"Method with regex", Method(Regex(`^(GET|HEAD)$`)), true},
		{"PathIs match", PathIs("/users/1"), true},
		{"PathIs mismatch", PathIs("/users/2"), false},
		{"Path with contains", Path(Contains("/users")), true},
		{"Path with regex", Path(Regex(`^/users/\d+$`)), true},
		{"MethodPath both match", MethodPath("GET", "/users/1"), true},
		{"MethodPath wrong method", MethodPath("POST", "/users/1"), false},
		{"MethodPath wrong path", MethodPath("GET", "/orders"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Matches(r))
		})
	}
}

func TestQuery(t *testing.T) {
	r := req("GET", "/search", "q=go&page=2&tag=a&tag=b")

	tests := []struct {
		name string
		m    httptest.Matcher[*httptest.Request]
		want bool
	}{
		{"single value equal", Query("q", Eq("go")), true},
		{"single value unequal", Query("q", Eq("rust")), false},
		{"missing key never matches", Query("missing", Eq("")), false},
		{"any instance of repeated key", Query("tag", Eq("b")), true},
		{"no instance matches", Query("tag", Eq("c")), false},
		{"regex on value", Query("page", Regex(`^\d+$`)), true},
		{"HasQuery present", HasQuery("page"), true},
		{"HasQuery absent", HasQuery("offset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Matches(r))
		})
	}
}

func TestURLDecoded(t *testing.T) {
	r := req("GET", "/search", "q=go&tag=a&tag=b")

	assert.True(t, URLDecoded(ParamEq("q", "go")).Matches(r))
	assert.True(t, URLDecoded(ParamEq("tag", "b")).Matches(r))
	assert.False(t, URLDecoded(ParamEq("q", "rust")).Matches(r))
	assert.True(t, URLDecoded(HasParam("tag")).Matches(r))
	assert.False(t, URLDecoded(HasParam("offset")).Matches(r))

	both := URLDecoded(httptest.AllOf(ParamEq("q", "go"), HasParam("tag")))
	assert.True(t, both.Matches(r))
}

func TestHeader(t *testing.T) {
	r := req("GET", "/", "")
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "application/json")
	r.Header.Set("X-Request-Id", "abc-123")

	tests := []struct {
		name string
		m    httptest.Matcher[*httptest.Request]
		want bool
	}{
		{"any instance matches", Header("Accept", Eq("application/json")), true},
		{"no instance matches", Header("Accept", Eq("application/xml")), false},
		{"lookup is case-insensitive", Header("accept", Contains("json")), true},
		{"missing header never matches", Header("Authorization", Contains("")), false},
		{"HasHeader present", HasHeader("x-request-id"), true},
		{"HasHeader absent", HasHeader("Authorization"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Matches(r))
		})
	}
}

func TestBody(t *testing.T) {
	r := req("POST", "/users", "")
	r.Body = []byte(`{"name":"bob"}`)

	assert.True(t, Body(Eq(`{"name":"bob"}`)).Matches(r))
	assert.True(t, Body(Contains(`"name"`)).Matches(r))
	assert.False(t, Body(Contains("alice")).Matches(r))
	assert.True(t, Body(Regex(`"name":\s*"\w+"`)).Matches(r))
}

func TestBodyBytes(t *testing.T) {
	r := req("POST", "/upload", "")
	r.Body = []byte{0x1f, 0x8b, 0x08}

	gzipMagic := BodyBytes("gzip magic", func(b []byte) bool {
		return len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b
	})
	assert.True(t, gzipMagic.Matches(r))

	r.Body = []byte("plain")
	assert.False(t, gzipMagic.Matches(r))
}

func TestJSONDecoded(t *testing.T) {
	tests := []struct {
		name string
		body string
		m    httptest.Matcher[*httptest.Request]
		want bool
	}{
		{
			"object equality",
			`{"name":"bob","id":7}`,
			JSONDecoded(EqValue(map[string]any{"name": "bob", "id": 7})),
			true,
		},
		{
			"key order and whitespace are irrelevant",
			` { "id" : 7 , "name" : "bob" } `,
			JSONDecoded(EqValue(map[string]any{"name": "bob", "id": 7})),
			true,
		},
		{
			"value mismatch",
			`{"name":"alice","id":7}`,
			JSONDecoded(EqValue(map[string]any{"name": "bob", "id": 7})),
			false,
		},
		{
			"invalid JSON never matches",
			`{"name":`,
			JSONDecoded(EqValue(map[string]any{})),
			false,
		},
		{
			"scalar body",
			`42`,
			JSONDecoded(EqValue(42)),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req("POST", "/ingest", "")
			r.Body = []byte(tt.body)
			assert.Equal(t, tt.want, tt.m.Matches(r))
		})
	}
}

func TestFormDecoded(t *testing.T) {
	r := req("POST", "/login", "")
	r.Body = []byte("username=bob&scope=read&scope=write")

	assert.True(t, FormDecoded(ParamEq("username", "bob")).Matches(r))
	assert.True(t, FormDecoded(ParamEq("scope", "write")).Matches(r))
	assert.False(t, FormDecoded(ParamEq("username", "alice")).Matches(r))

	r.Body = []byte("%zz=broken")
	assert.False(t, FormDecoded(HasParam("%zz")).Matches(r), "undecodable body never matches")
}
