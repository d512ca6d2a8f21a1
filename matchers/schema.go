package matchers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ggriffiniii/httptest"
)

// JSONSchema validates the request body against a JSON Schema (draft
// 2020-12) given as an inline document. Bodies that aren't valid JSON or
// that fail validation don't match. The schema is compiled once, at
// construction; an uncompilable schema panics.
func JSONSchema(schema string) httptest.Matcher[*httptest.Request] {
	compiled, err := compileSchema(schema)
	if err != nil {
		panic(fmt.Sprintf("matchers: JSONSchema: %v", err))
	}
	desc := fmt.Sprintf("jsonSchema(%s)", abbreviate(schema, 40))
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		var doc any
		if err := json.Unmarshal(r.Body, &doc); err != nil {
			return false
		}
		return compiled.Validate(doc) == nil
	})
}

func compileSchema(schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile("schema.json")
}

// abbreviate collapses whitespace runs and truncates, for description text.
func abbreviate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
