// Package responders provides the built-in responders expectations answer
// with.
//
//	responders.Status(204)
//	responders.Status(201).WithHeader("Location", "/users/7").WithBody("created")
//	responders.JSON(map[string]any{"id": 7})
//	responders.JSON(err).WithStatus(422)
//	responders.Delay(150*time.Millisecond, responders.Status(200))
//	responders.Cycle(responders.Status(200), responders.Status(503))
//
// Cycle steps through its responders in order and keeps repeating the last
// one once it runs out. Delay waits are cut short when the server stops, so
// a slow responder can't hang a test suite's teardown.
//
// Anything implementing httptest.Responder can be used in their place;
// responders.Func adapts a plain function.
package responders
