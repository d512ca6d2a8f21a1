package httptest

import "fmt"

// Times is the call-count constraint on an Expectation: the range of times it
// may be selected over the server's life. Construct one with Exactly,
// AtLeast, AtMost, Between, or AnyTimes.
type Times struct {
	lo int
	hi int // -1 means unbounded
}

// Exactly requires the expectation to be hit exactly n times. n must be
// non-negative.
func Exactly(n int) Times {
	if n < 0 {
		panic(fmt.Sprintf("httptest: Exactly(%d): count must be non-negative", n))
	}
	return Times{lo: n, hi: n}
}

// AtLeast requires at least n hits with no upper bound. n must be
// non-negative.
func AtLeast(n int) Times {
	if n < 0 {
		panic(fmt.Sprintf("httptest: AtLeast(%d): count must be non-negative", n))
	}
	return Times{lo: n, hi: -1}
}

// AtMost permits up to n hits, including zero. n must be non-negative.
func AtMost(n int) Times {
	if n < 0 {
		panic(fmt.Sprintf("httptest: AtMost(%d): count must be non-negative", n))
	}
	return Times{lo: 0, hi: n}
}

// Between requires between lo and hi hits inclusive. Bounds must satisfy
// 0 <= lo <= hi.
func Between(lo, hi int) Times {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("httptest: Between(%d, %d): bounds must satisfy 0 <= lo <= hi", lo, hi))
	}
	return Times{lo: lo, hi: hi}
}

// AnyTimes permits any number of hits, including zero.
func AnyTimes() Times {
	return Times{lo: 0, hi: -1}
}

// Satisfied reports whether a final hit count fulfills the constraint.
func (t Times) Satisfied(hits int) bool {
	return hits >= t.lo && (t.hi < 0 || hits <= t.hi)
}

// Open reports whether the constraint still permits another hit. Constraints
// without an upper bound are always open.
func (t Times) Open(hits int) bool {
	return t.hi < 0 || hits < t.hi
}

// String renders the constraint in canonical form: "exactly 2 times",
// "at least 1 time", "at most 3 times", "between 1 and 3 times", or
// "any number of times".
func (t Times) String() string {
	switch {
	case t.lo == t.hi:
		return fmt.Sprintf("exactly %d %s", t.lo, plural(t.lo))
	case t.hi < 0 && t.lo == 0:
		return "any number of times"
	case t.hi < 0:
		return fmt.Sprintf("at least %d %s", t.lo, plural(t.lo))
	case t.lo == 0:
		return fmt.Sprintf("at most %d %s", t.hi, plural(t.hi))
	default:
		return fmt.Sprintf("between %d and %d times", t.lo, t.hi)
	}
}

func plural(n int) string {
	if n == 1 {
		return "time"
	}
	return "times"
}
