package httptest

import "sync"

// registry holds the server's expectations in registration order and owns
// the selection algorithm. Expectations are appended during the server's
// life and never removed (VerifyAndClear swaps in a fresh registry state).
//
// One mutex serializes the whole select-and-increment unit as well as the
// unmatched-request log, so concurrent requests observe consistent counters
// and a Verify run never races an in-flight selection.
type registry struct {
	mu           sync.Mutex
	expectations []*Expectation
	unmatched    []*Request
}

func (g *registry) add(e *Expectation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expectations = append(g.expectations, e)
}

// dispatch scans expectations in registration order and selects the first
// one whose constraint still permits a hit and whose matcher accepts the
// request. The winner's counter is incremented before the lock is released.
// When nothing is eligible the request is recorded as unmatched and
// ok is false.
func (g *registry) dispatch(req *Request) (e *Expectation, index int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, candidate := range g.expectations {
		if !candidate.times.Open(candidate.hits) {
			continue
		}
		if !candidate.matcher.Matches(req) {
			continue
		}
		candidate.hits++
		return candidate, i, true
	}
	g.unmatched = append(g.unmatched, req)
	return nil, -1, false
}

// verify evaluates every expectation's final hit count against its
// constraint, collecting all violations rather than stopping at the first.
// Unless allowUnmatched is set, recorded unmatched requests fail
// verification too.
func (g *registry) verify(allowUnmatched bool) *VerifyError {
	g.mu.Lock()
	defer g.mu.Unlock()

	var violations []Violation
	for i, e := range g.expectations {
		if e.times.Satisfied(e.hits) {
			continue
		}
		violations = append(violations, Violation{
			Index:       i,
			Description: e.description(),
			Expected:    e.times.String(),
			Actual:      e.hits,
		})
	}

	var unmatched []*Request
	if !allowUnmatched {
		unmatched = append(unmatched, g.unmatched...)
	}

	if len(violations) == 0 && len(unmatched) == 0 {
		return nil
	}
	return &VerifyError{Violations: violations, Unmatched: unmatched}
}

// clear drops every expectation and unmatched record, leaving the registry
// ready for reuse.
func (g *registry) clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expectations = nil
	g.unmatched = nil
}

// unmatchedSnapshot returns a copy of the unmatched request list.
func (g *registry) unmatchedSnapshot() []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Request, len(g.unmatched))
	copy(out, g.unmatched)
	return out
}
