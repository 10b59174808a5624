// Package mockserver provides mock HTTP endpoints for tests whose callbacks are driven by real
// HTTP traffic.
//
// A Server listens on a local port. Each Endpoint gets its own base URL under that server, and
// can notify a hook, typically a callback wrapped with framework.ExpectAsync1, about every request
// it receives.
package mockserver
