package framework

import (
	"fmt"
	"sync"
)

// Unbounded can be passed to Max to allow any number of calls.
const Unbounded = -1

// GuardOption configures a callback created by one of the ExpectAsync or ProtectAsync functions.
type GuardOption func(*guardParams)

type guardParams struct {
	minExpected int
	maxExpected int
	isDone      func() bool
	id          string
}

// Count sets the number of calls the test waits for. The default for ExpectAsync functions is 1;
// a count of 0 means the callback must not be called at all.
func Count(n int) GuardOption {
	return func(p *guardParams) { p.minExpected = n }
}

// Max sets the number of calls after which further calls are reported as failures. 0 means the
// same as Count; Unbounded means there is no limit.
func Max(n int) GuardOption {
	return func(p *guardParams) { p.maxExpected = n }
}

// ID sets a name for the callback that is used in failure messages.
func ID(id string) GuardOption {
	return func(p *guardParams) { p.id = id }
}

// callbackGuard enforces call-count bounds on a user callback and attributes anything that goes
// wrong inside it to the test case that was running when the guard was created, no matter which
// goroutine calls it or when.
type callbackGuard struct {
	t           *T
	minExpected int
	maxExpected int
	isDone      func() bool
	id          string
	calls       int
	complete    bool
	lock        sync.Mutex
}

func newGuard(t *T, defaults guardParams, opts []GuardOption) *callbackGuard {
	p := defaults
	for _, o := range opts {
		o(&p)
	}
	if p.maxExpected == 0 && p.minExpected > 0 {
		p.maxExpected = p.minExpected
	}
	g := &callbackGuard{
		t:           t,
		minExpected: p.minExpected,
		maxExpected: p.maxExpected,
		isDone:      p.isDone,
		id:          p.id,
		complete:    true,
	}
	if p.isDone != nil || p.minExpected > 0 {
		g.complete = false
		t.tc.callbackStarted(t.gen)
	}
	return g
}

func (g *callbackGuard) name() string {
	if g.id == "" {
		return "callback"
	}
	return fmt.Sprintf("callback %q", g.id)
}

// invoke runs one call of the wrapped callback; call closes over the arguments.
func (g *callbackGuard) invoke(call func()) {
	g.lock.Lock()
	g.calls++
	calls := g.calls
	g.lock.Unlock()

	tc := g.t.tc
	if done, result := tc.terminal(g.t.gen); done {
		if result == ResultPass {
			tc.late(g.t.gen, fmt.Sprintf("%s called (%d) after test case %q had already passed",
				g.name(), calls, tc.Description()))
		}
		return
	}
	if g.maxExpected >= 0 && calls > g.maxExpected {
		g.t.recordFail(fmt.Sprintf("%s called more times than expected (%d)", g.name(), g.maxExpected),
			callerStack())
		return
	}
	g.t.protect(call)
	g.checkComplete()
}

func (g *callbackGuard) checkComplete() {
	g.lock.Lock()
	if g.complete || g.calls < g.minExpected {
		g.lock.Unlock()
		return
	}
	g.lock.Unlock()

	if g.isDone != nil {
		finished := false
		g.t.protect(func() { finished = g.isDone() })
		if !finished {
			return
		}
	}

	g.lock.Lock()
	already := g.complete
	g.complete = true
	g.lock.Unlock()
	if !already {
		g.t.tc.callbackComplete(g.t.gen)
	}
}

func expectDefaults() guardParams {
	return guardParams{minExpected: 1}
}

func untilDefaults(isDone func() bool) guardParams {
	return guardParams{maxExpected: Unbounded, isDone: isDone}
}

func protectDefaults() guardParams {
	return guardParams{maxExpected: Unbounded}
}

// ExpectAsync0 wraps a callback that the test expects to be called, by default exactly once. The
// test does not complete until the expected number of calls has happened.
func ExpectAsync0(t *T, callback func(), opts ...GuardOption) func() {
	return wrap0(newGuard(t, expectDefaults(), opts), callback)
}

// ExpectAsync1 is ExpectAsync0 for a callback with one argument.
func ExpectAsync1[A any](t *T, callback func(A), opts ...GuardOption) func(A) {
	return wrap1(newGuard(t, expectDefaults(), opts), callback)
}

// ExpectAsync2 is ExpectAsync0 for a callback with two arguments.
func ExpectAsync2[A, B any](t *T, callback func(A, B), opts ...GuardOption) func(A, B) {
	return wrap2(newGuard(t, expectDefaults(), opts), callback)
}

// ExpectAsyncUntil0 wraps a callback that may be called any number of times; the test does not
// complete until isDone returns true after one of the calls.
func ExpectAsyncUntil0(t *T, callback func(), isDone func() bool, opts ...GuardOption) func() {
	return wrap0(newGuard(t, untilDefaults(isDone), opts), callback)
}

// ExpectAsyncUntil1 is ExpectAsyncUntil0 for a callback with one argument.
func ExpectAsyncUntil1[A any](t *T, callback func(A), isDone func() bool, opts ...GuardOption) func(A) {
	return wrap1(newGuard(t, untilDefaults(isDone), opts), callback)
}

// ExpectAsyncUntil2 is ExpectAsyncUntil0 for a callback with two arguments.
func ExpectAsyncUntil2[A, B any](t *T, callback func(A, B), isDone func() bool, opts ...GuardOption) func(A, B) {
	return wrap2(newGuard(t, untilDefaults(isDone), opts), callback)
}

// ProtectAsync0 wraps an optional callback. The test does not wait for it, but failures and
// panics inside it are still attributed to the test.
func ProtectAsync0(t *T, callback func(), opts ...GuardOption) func() {
	return wrap0(newGuard(t, protectDefaults(), opts), callback)
}

// ProtectAsync1 is ProtectAsync0 for a callback with one argument.
func ProtectAsync1[A any](t *T, callback func(A), opts ...GuardOption) func(A) {
	return wrap1(newGuard(t, protectDefaults(), opts), callback)
}

// ProtectAsync2 is ProtectAsync0 for a callback with two arguments.
func ProtectAsync2[A, B any](t *T, callback func(A, B), opts ...GuardOption) func(A, B) {
	return wrap2(newGuard(t, protectDefaults(), opts), callback)
}

// GuardAsync runs fn immediately, attributing any panic to the test.
func GuardAsync(t *T, fn func()) {
	t.protect(fn)
}

// GuardAsyncValue is GuardAsync for a function that returns a value. If fn panics, the zero value
// is returned.
func GuardAsyncValue[R any](t *T, fn func() R) R {
	var result R
	t.protect(func() { result = fn() })
	return result
}

func wrap0(g *callbackGuard, callback func()) func() {
	return func() {
		g.invoke(func() {
			if callback != nil {
				callback()
			}
		})
	}
}

func wrap1[A any](g *callbackGuard, callback func(A)) func(A) {
	return func(a A) {
		g.invoke(func() {
			if callback != nil {
				callback(a)
			}
		})
	}
}

func wrap2[A, B any](g *callbackGuard, callback func(A, B)) func(A, B) {
	return func(a A, b B) {
		g.invoke(func() {
			if callback != nil {
				callback(a, b)
			}
		})
	}
}
