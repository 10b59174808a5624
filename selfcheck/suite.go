package selfcheck

import (
	"github.com/launchdarkly/async-test-harness/framework"
	"github.com/launchdarkly/async-test-harness/mockserver"
)

// Register adds the self-check tests to a suite. HTTP tests use endpoints on server.
func Register(s *framework.Suite, server *mockserver.Server) {
	s.Group("synchronous", func() { doSynchronousTests(s) })
	s.Group("futures", func() { doFutureTests(s) })
	s.Group("callbacks", func() { doCallbackTests(s, server) })
	s.Group("setup and teardown", func() { doSetUpTearDownTests(s) })
}
