// Package requestlog captures the requests a mock server received and the
// responses it sent, for inspection from tests and from the httptestd
// command.
//
// It is distinct from operational logging (log/slog): entries here are data
// a test asserts on, not diagnostics a human tails.
//
// # Core Types
//
// Entry is a captured request/response pair, including which expectation
// matched it. Store holds entries with a bounded history:
//
//	store := requestlog.NewMemoryStore(1000)
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/users"})
//	got := store.List(&requestlog.Filter{Method: "GET"})
//
// The history is diagnostic only: evicting old entries never affects
// expectation verification, which tracks unmatched requests separately.
//
// # Package Design
//
// This is a leaf package with no dependencies on the rest of the module, so
// any package can import it without creating cycles.
package requestlog
