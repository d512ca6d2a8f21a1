package httptest

import (
	"fmt"
	"strings"
)

// Violation reports one expectation whose final hit count fell outside its
// constraint.
type Violation struct {
	// Index is the expectation's registration position, starting at 0.
	Index int

	// Description is the expectation's name, or its matcher description when
	// unnamed.
	Description string

	// Expected is the constraint in canonical form, e.g. "exactly 1 time".
	Expected string

	// Actual is the number of requests the expectation served.
	Actual int
}

// VerifyError aggregates everything wrong at teardown: every call-count
// violation and every request no expectation was eligible for. A single
// verification pass reports the full list, so one test run surfaces every
// mismatch at once.
type VerifyError struct {
	Violations []Violation
	Unmatched  []*Request
}

// Error renders the aggregated report, one line per problem.
func (e *VerifyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mock server verification failed: %d violation(s), %d unmatched request(s)",
		len(e.Violations), len(e.Unmatched))
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  expectation #%d (%s): expected %s, received %d",
			v.Index+1, v.Description, v.Expected, v.Actual)
	}
	for _, r := range e.Unmatched {
		fmt.Fprintf(&b, "\n  unmatched request: %s", r)
	}
	return b.String()
}
