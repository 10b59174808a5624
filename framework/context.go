package framework

import (
	"fmt"
)

// T is the handle a test body, setup or teardown receives for one run of one test case. It is
// used similarly to *testing.T: it implements require.TestingT, so assertions from the assert and
// require packages can be passed a *T directly.
//
// Errorf, Fail, Log and Debug may be called from any goroutine. FailNow, like its counterpart in
// the testing package, stops execution by panicking, so it must only be called from code the
// suite is running: a test body, a setup or teardown, or a callback wrapped by one of the
// ExpectAsync or ProtectAsync functions.
type T struct {
	suite *Suite
	tc    *TestCase
	gen   int
	// tearDown is set on the T given to teardowns; only its failures can replace a pass.
	tearDown bool
}

func newT(suite *Suite, tc *TestCase, gen int) *T {
	return &T{suite: suite, tc: tc, gen: gen}
}

func newTearDownT(suite *Suite, tc *TestCase, gen int) *T {
	return &T{suite: suite, tc: tc, gen: gen, tearDown: true}
}

// ID returns the registration number of the test case being run.
func (t *T) ID() int {
	return t.tc.ID()
}

// Description returns the fully qualified name of the test case being run.
func (t *T) Description() string {
	return t.tc.Description()
}

// Case returns the test case being run.
func (t *T) Case() *TestCase {
	return t.tc
}

// Errorf records an assertion failure without stopping the test.
func (t *T) Errorf(format string, args ...interface{}) {
	t.recordFail(fmt.Sprintf(format, args...), callerStack())
}

// Fail records an assertion failure and stops the test.
func (t *T) Fail(message string) {
	t.recordFail(message, callerStack())
	t.FailNow()
}

// FailNow stops the test. If no failure has been recorded yet, it records a generic one.
func (t *T) FailNow() {
	panic(t)
}

// Helper is a no-op; it lets testify mark its own frames the way it does for *testing.T.
func (t *T) Helper() {}

// Log sends a message to the reporter, associated with this test case.
func (t *T) Log(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.suite.report(func(r Reporter) { r.OnLogMessage(t.tc, message) })
}

// Debug records debug output for the test case. It is not shown as it happens, but is available
// from TestCase.DebugOutput once the test has finished.
func (t *T) Debug(message string, args ...interface{}) {
	t.tc.debugf(t.gen, message, args...)
}

// DebugLogger returns a Logger that writes to this test case's debug output.
func (t *T) DebugLogger() Logger {
	return debugLogger{t}
}

type debugLogger struct{ t *T }

func (d debugLogger) Printf(message string, args ...interface{}) {
	d.t.Debug(message, args...)
}

// protect runs fn, attributing anything it panics with to this test case.
func (t *T) protect(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.attribute(r, recoveredStack())
		}
	}()
	fn()
}

// invoke runs a possibly-suspending action under the same attribution as protect. A panic is
// treated as immediate completion.
func (t *T) invoke(action Action) (f *Future) {
	if action == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			f = nil
			t.attribute(r, recoveredStack())
		}
	}()
	return action(t)
}

// attribute records a recovered panic value or a rejection error against this test case.
func (t *T) attribute(value interface{}, stack string) {
	if value == nil {
		return
	}
	if p, ok := value.(*panicError); ok {
		value, stack = p.value, p.stack
	}
	if _, ok := value.(*T); ok {
		if done, _ := t.tc.terminal(t.gen); !done {
			t.recordFail("test failed with no failure message", stack)
		}
		return
	}
	o := classify(value, stack)
	if o.result == ResultFail {
		t.recordFail(o.message, o.trace)
	} else {
		t.tc.error(t.gen, o.message, o.trace, t.tearDown)
	}
}

func (t *T) recordFail(message, trace string) {
	t.tc.fail(t.gen, message, trace, t.tearDown)
}

// continueWith runs next once f has settled, from the suite's loop, and returns a Future for the
// combined work. If f is rejected, next is skipped.
func (t *T) continueWith(f *Future, next Action) *Future {
	combined := NewFuture()
	f.Then(func(err error) {
		t.suite.loop.submit(func() {
			if err != nil {
				combined.Reject(err)
				return
			}
			g, perr := t.invokeCapturing(next)
			if perr != nil {
				combined.Reject(perr)
				return
			}
			forward(g, combined)
		})
	})
	return combined
}

// invokeCapturing runs an action, returning a panic as an error instead of attributing it, so
// that the caller can propagate it through a Future.
func (t *T) invokeCapturing(action Action) (f *Future, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = &panicError{value: r, stack: recoveredStack()}
		}
	}()
	return action(t), nil
}
