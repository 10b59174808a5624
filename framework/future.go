package framework

import (
	"errors"
	"sync"
)

// Future is a pending-completion handle. It settles exactly once, either successfully or with an
// error. Futures may be settled from any goroutine.
//
// Use NewFuture to create one; the zero value is not usable.
type Future struct {
	done      chan struct{}
	err       error
	settled   bool
	callbacks []func(error)
	lock      sync.Mutex
}

// Action is a possibly-suspending procedure run on behalf of a test case: a setup, a teardown, or
// a test body. Returning nil means the action completed immediately; returning a Future means the
// action is pending until that Future settles.
type Action func(t *T) *Future

// NewFuture creates an unsettled Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Completed returns a Future that has already settled successfully.
func Completed() *Future {
	f := NewFuture()
	f.Resolve()
	return f
}

// Failed returns a Future that has already settled with the specified error.
func Failed(err error) *Future {
	f := NewFuture()
	f.Reject(err)
	return f
}

// Resolve settles the Future successfully. It returns false if the Future was already settled.
func (f *Future) Resolve() bool {
	return f.settle(nil)
}

// Reject settles the Future with an error. It returns false if the Future was already settled.
func (f *Future) Reject(err error) bool {
	if err == nil {
		err = errors.New("future rejected with a nil error")
	}
	return f.settle(err)
}

// Settle resolves the Future if err is nil, or rejects it otherwise.
func (f *Future) Settle(err error) bool {
	if err == nil {
		return f.Resolve()
	}
	return f.Reject(err)
}

func (f *Future) settle(err error) bool {
	f.lock.Lock()
	if f.settled {
		f.lock.Unlock()
		return false
	}
	f.settled = true
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.lock.Unlock()

	for _, cb := range callbacks {
		cb(err)
	}
	return true
}

// Done returns a channel that is closed when the Future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the Future has settled.
func (f *Future) Settled() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.settled
}

// Err returns the error the Future was rejected with, or nil if it resolved or has not settled yet.
func (f *Future) Err() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.err
}

// Then registers a function to be called with the outcome once the Future settles. If it has
// already settled, fn is called immediately on the calling goroutine; otherwise it is called on
// whichever goroutine settles the Future.
func (f *Future) Then(fn func(error)) {
	f.lock.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.lock.Unlock()
		return
	}
	err := f.err
	f.lock.Unlock()
	fn(err)
}

// forward settles target with the outcome of source. A nil source counts as immediate success.
func forward(source, target *Future) {
	if source == nil {
		target.Resolve()
		return
	}
	source.Then(func(err error) { target.Settle(err) })
}

// Sync adapts a plain function into an Action that always completes immediately.
func Sync(fn func(*T)) Action {
	if fn == nil {
		return nil
	}
	return func(t *T) *Future {
		fn(t)
		return nil
	}
}
