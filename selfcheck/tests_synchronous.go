package selfcheck

import (
	"strings"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doSynchronousTests(s *framework.Suite) {
	s.Test("assertions pass", func(t *framework.T) {
		assert.Equal(t, 4, 2+2)
		require.True(t, strings.HasPrefix(t.Description(), "synchronous"))
	})

	s.Test("debug output is kept with the test", func(t *framework.T) {
		t.Debug("checking test %d", t.ID())
		output := t.Case().DebugOutput()
		require.Len(t, output, 1)
		assert.Contains(t, output[0].Message, "checking test")
	})

	s.Test("guarded code runs immediately", func(t *framework.T) {
		ran := false
		framework.GuardAsync(t, func() { ran = true })
		assert.True(t, ran)
	})
}
