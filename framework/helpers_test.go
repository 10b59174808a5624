package framework

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testRunTimeout = time.Second * 5

type recordingReporter struct {
	events   []string
	changed  []string
	logs     []string
	summary  [3]int
	uncaught string
	success  *bool
	lock     sync.Mutex
}

func (r *recordingReporter) add(event string) {
	r.lock.Lock()
	r.events = append(r.events, event)
	r.lock.Unlock()
}

func (r *recordingReporter) Events() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingReporter) OnInit()  { r.add("init") }
func (r *recordingReporter) OnStart() { r.add("start") }

func (r *recordingReporter) OnTestStart(tc *TestCase) {
	r.add("test start: " + tc.Description())
}

func (r *recordingReporter) OnTestResult(tc *TestCase) {
	r.add(fmt.Sprintf("test result: %s %s", tc.Description(), tc.Result()))
}

func (r *recordingReporter) OnTestResultChanged(tc *TestCase) {
	d := tc.Diagnostics()
	r.lock.Lock()
	r.changed = append(r.changed, d[len(d)-1])
	r.lock.Unlock()
}

func (r *recordingReporter) OnLogMessage(tc *TestCase, message string) {
	r.lock.Lock()
	r.logs = append(r.logs, message)
	r.lock.Unlock()
}

func (r *recordingReporter) OnSummary(passed, failed, errored int, cases []*TestCase, uncaughtError string) {
	r.lock.Lock()
	r.summary = [3]int{passed, failed, errored}
	r.uncaught = uncaughtError
	r.lock.Unlock()
	r.add("summary")
}

func (r *recordingReporter) OnDone(success bool) {
	r.lock.Lock()
	r.success = &success
	r.lock.Unlock()
	r.add("done")
}

func newTestSuite() (*Suite, *recordingReporter) {
	r := &recordingReporter{}
	return NewSuite(Config{}, r), r
}

func contextForTest(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), testRunTimeout)
	t.Cleanup(cancel)
	return ctx
}

func runSuite(t *testing.T, s *Suite) Results {
	results, err := s.Run(contextForTest(t))
	require.NoError(t, err)
	return results
}

// orderLog collects strings from test bodies, which may be called from other goroutines.
type orderLog struct {
	items []string
	lock  sync.Mutex
}

func (o *orderLog) add(s string) {
	o.lock.Lock()
	o.items = append(o.items, s)
	o.lock.Unlock()
}

func (o *orderLog) get() []string {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]string(nil), o.items...)
}

func resultOf(results Results, description string) TestResult {
	for _, r := range results.Tests {
		if r.Description == description {
			return r
		}
	}
	return TestResult{}
}
