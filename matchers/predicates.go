package matchers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ggriffiniii/httptest"
)

// Eq matches values equal to want.
func Eq[T comparable](want T) httptest.Matcher[T] {
	return httptest.MatchFunc(fmt.Sprintf("eq(%v)", want), func(v T) bool {
		return v == want
	})
}

// Contains matches strings containing substr.
func Contains(substr string) httptest.Matcher[string] {
	return httptest.MatchFunc(fmt.Sprintf("contains(%q)", substr), func(v string) bool {
		return strings.Contains(v, substr)
	})
}

// Regex matches strings against an RE2 pattern. An invalid pattern panics at
// construction.
func Regex(pattern string) httptest.Matcher[string] {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("matchers: Regex: invalid pattern %q: %v", pattern, err))
	}
	return httptest.MatchFunc(fmt.Sprintf("regex(%q)", pattern), re.MatchString)
}

// Lowercase lowercases the value before applying inner, for case-insensitive
// comparisons against a lowercase needle.
func Lowercase(inner httptest.Matcher[string]) httptest.Matcher[string] {
	return httptest.MatchFunc("lowercase("+inner.String()+")", func(v string) bool {
		return inner.Matches(strings.ToLower(v))
	})
}

// EqValue matches decoded values structurally equal to want. Both sides are
// normalized through encoding/json before comparison, so an int 7 equals a
// decoded JSON 7 even though JSON numbers decode as float64, and struct
// values compare equal to the maps they decode into. A want value that
// cannot be marshalled panics at construction.
func EqValue(want any) httptest.Matcher[any] {
	normalized, err := normalizeJSON(want)
	if err != nil {
		panic(fmt.Sprintf("matchers: EqValue: %v", err))
	}
	return httptest.MatchFunc(fmt.Sprintf("eqValue(%v)", want), func(v any) bool {
		got, err := normalizeJSON(v)
		if err != nil {
			return false
		}
		return reflect.DeepEqual(got, normalized)
	})
}

// AsString narrows a decoded value to a string before applying inner, so
// string predicates compose with JSONPath and JSONDecoded:
//
//	matchers.JSONPath("$.trace", matchers.AsString(matchers.Regex(`^[a-f0-9-]+$`)))
//
// Non-string values never match.
func AsString(inner httptest.Matcher[string]) httptest.Matcher[any] {
	return httptest.MatchFunc("asString("+inner.String()+")", func(v any) bool {
		s, ok := v.(string)
		return ok && inner.Matches(s)
	})
}

// normalizeJSON round-trips v through encoding/json so values of different
// Go types that encode identically compare equal.
func normalizeJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
