package httptest

import "context"

// Responder produces the reply for a request its expectation was selected to
// serve. Respond is invoked once per selected request, after the hit counter
// has been incremented. The context is cancelled when the owning server is
// torn down, so delaying responders can cut their wait short instead of
// hanging the suite.
//
// A responder may carry internal state mutated across invocations (see
// responders.Cycle); such responders guard their own mutation, since one
// expectation can be hit from concurrent requests.
type Responder interface {
	Respond(ctx context.Context, req *Request) *Response
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, req *Request) *Response

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, req *Request) *Response {
	return f(ctx, req)
}

// Expectation is one registered rule: a request matcher, a call-count
// constraint, and a responder. Its hit counter starts at zero and is
// incremented exactly once per request it is selected to serve, under the
// owning registry's lock. Build expectations with Matching.
type Expectation struct {
	name      string
	matcher   Matcher[*Request]
	times     Times
	responder Responder

	// hits is guarded by the owning registry's mutex.
	hits int
}

// description identifies the expectation in reports and logs.
func (e *Expectation) description() string {
	if e.name != "" {
		return e.name
	}
	return e.matcher.String()
}

// ExpectationBuilder assembles an Expectation. Obtain one from Matching;
// RespondWith finishes the build.
type ExpectationBuilder struct {
	name     string
	matcher  Matcher[*Request]
	times    Times
	hasTimes bool
}

// Matching starts building an expectation for requests the matcher accepts.
func Matching(m Matcher[*Request]) *ExpectationBuilder {
	return &ExpectationBuilder{matcher: m}
}

// Named gives the expectation a human-readable name used in verification
// reports instead of the matcher description.
func (b *ExpectationBuilder) Named(name string) *ExpectationBuilder {
	b.name = name
	return b
}

// Times sets the call-count constraint. When omitted the expectation must be
// hit exactly once.
func (b *ExpectationBuilder) Times(t Times) *ExpectationBuilder {
	b.times = t
	b.hasTimes = true
	return b
}

// RespondWith sets the responder and returns the finished Expectation.
func (b *ExpectationBuilder) RespondWith(r Responder) *Expectation {
	if r == nil {
		panic("httptest: RespondWith requires a non-nil responder")
	}
	times := b.times
	if !b.hasTimes {
		times = Exactly(1)
	}
	return &Expectation{
		name:      b.name,
		matcher:   b.matcher,
		times:     times,
		responder: r,
	}
}
