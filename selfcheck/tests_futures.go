package selfcheck

import (
	"sync/atomic"
	"time"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/stretchr/testify/assert"
)

const timerDelay = time.Millisecond * 10

func doFutureTests(s *framework.Suite) {
	s.TestAsync("body future resolved by a timer", func(t *framework.T) *framework.Future {
		f := framework.NewFuture()
		time.AfterFunc(timerDelay, func() { f.Resolve() })
		return f
	})

	s.TestAsync("already completed future", func(t *framework.T) *framework.Future {
		return framework.Completed()
	})

	s.Group("asynchronous setup", func() {
		var ready int32
		s.SetUpAsync(func(t *framework.T) *framework.Future {
			atomic.StoreInt32(&ready, 0)
			f := framework.NewFuture()
			time.AfterFunc(timerDelay, func() {
				atomic.StoreInt32(&ready, 1)
				f.Resolve()
			})
			return f
		})

		s.Test("body starts after setup has settled", func(t *framework.T) {
			assert.Equal(t, int32(1), atomic.LoadInt32(&ready))
		})
	})
}
