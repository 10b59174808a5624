package selfcheck

import (
	"sync"

	"github.com/launchdarkly/async-test-harness/framework"

	"github.com/stretchr/testify/assert"
)

type eventLog struct {
	events []string
	lock   sync.Mutex
}

func (l *eventLog) add(event string) {
	l.lock.Lock()
	l.events = append(l.events, event)
	l.lock.Unlock()
}

func (l *eventLog) snapshot() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.events...)
}

func doSetUpTearDownTests(s *framework.Suite) {
	log := &eventLog{}

	s.Group("outer", func() {
		s.SetUp(func(*framework.T) { log.add("outer setup") })
		s.TearDown(func(*framework.T) { log.add("outer teardown") })

		s.Group("inner", func() {
			s.SetUp(func(*framework.T) { log.add("inner setup") })
			s.TearDownAsync(func(t *framework.T) *framework.Future {
				f := framework.NewFuture()
				go func() {
					log.add("inner teardown")
					f.Resolve()
				}()
				return f
			})

			s.Test("records its body", func(*framework.T) { log.add("body") })
		})

		s.Test("sees setup run outside-in and teardown inside-out", func(t *framework.T) {
			assert.Equal(t, []string{
				"outer setup", "inner setup", "body", "inner teardown", "outer teardown", "outer setup",
			}, log.snapshot())
		})
	})
}
