package framework

import (
	"context"
	"sync"
)

// loop is the single logical thread that the scheduler runs on. Tasks can be submitted from any
// goroutine, but they are only ever executed one at a time, in submission order, by whichever
// goroutine is currently driving the loop.
type loop struct {
	queue  []func()
	wakeup chan struct{}
	lock   sync.Mutex
}

func newLoop() *loop {
	return &loop{wakeup: make(chan struct{}, 1)}
}

func (l *loop) submit(task func()) {
	l.lock.Lock()
	l.queue = append(l.queue, task)
	l.lock.Unlock()
	select { // non-blocking signal
	case l.wakeup <- struct{}{}:
	default:
	}
}

func (l *loop) next() (func(), bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}

func (l *loop) pending() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.queue)
}

// run executes tasks until stop is closed or ctx is done. Tasks still queued at that point stay
// queued, so a later call to run picks up where this one left off.
func (l *loop) run(ctx context.Context, stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if task, ok := l.next(); ok {
			task()
			continue
		}
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeup:
		}
	}
}
