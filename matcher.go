package httptest

import "strings"

// Matcher is a composable boolean predicate over a value of type T, most
// commonly *Request. Matchers are pure: they hold no mutable state, are safe
// to evaluate from concurrent requests, and never panic while matching. A
// matcher that cannot decode its input (for example a JSON body matcher fed
// invalid JSON) evaluates to false rather than erroring, so one bad request
// can never crash the server.
//
// The algebra is a closed tree: leaf predicates built by MatchFunc (and the
// constructors in package matchers) combined by AllOf, AnyOf, and Not.
// Evaluation is a recursive walk over that tree.
//
// The zero value matches nothing.
type Matcher[T any] struct {
	kind     matcherKind
	children []Matcher[T]
	pred     func(T) bool
	desc     string
}

type matcherKind uint8

const (
	kindPred matcherKind = iota
	kindAllOf
	kindAnyOf
	kindNot
)

// MatchFunc builds a leaf matcher from a predicate function. The description
// appears in verification reports and debug logs.
func MatchFunc[T any](desc string, pred func(T) bool) Matcher[T] {
	return Matcher[T]{kind: kindPred, pred: pred, desc: desc}
}

// AllOf matches when every child matches. Evaluation short-circuits at the
// first non-matching child. With no children it matches everything.
func AllOf[T any](ms ...Matcher[T]) Matcher[T] {
	return Matcher[T]{kind: kindAllOf, children: ms}
}

// AnyOf matches when at least one child matches. With no children it matches
// nothing.
func AnyOf[T any](ms ...Matcher[T]) Matcher[T] {
	return Matcher[T]{kind: kindAnyOf, children: ms}
}

// Not negates a matcher.
func Not[T any](m Matcher[T]) Matcher[T] {
	return Matcher[T]{kind: kindNot, children: []Matcher[T]{m}}
}

// Matches reports whether the value satisfies the matcher.
func (m Matcher[T]) Matches(v T) bool {
	switch m.kind {
	case kindAllOf:
		for _, c := range m.children {
			if !c.Matches(v) {
				return false
			}
		}
		return true
	case kindAnyOf:
		for _, c := range m.children {
			if c.Matches(v) {
				return true
			}
		}
		return false
	case kindNot:
		return !m.children[0].Matches(v)
	default:
		if m.pred == nil {
			return false
		}
		return m.pred(v)
	}
}

// String renders the matcher tree for diagnostics.
func (m Matcher[T]) String() string {
	switch m.kind {
	case kindAllOf:
		return "allOf(" + joinDescriptions(m.children) + ")"
	case kindAnyOf:
		return "anyOf(" + joinDescriptions(m.children) + ")"
	case kindNot:
		return "not(" + m.children[0].String() + ")"
	default:
		if m.desc == "" {
			return "<unset>"
		}
		return m.desc
	}
}

func joinDescriptions[T any](ms []Matcher[T]) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
