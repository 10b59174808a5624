package mockserver

import (
	"sort"
	"sync"
)

// Sequencer releases numbered messages in order. Messages may arrive out of order from different
// goroutines, such as callback requests from a remote service; each one is held until every
// message with a lower sequence number has been delivered.
//
// Sequence numbers start at 1.
type Sequencer[V any] struct {
	deliver  func(seq int, value V)
	last     int
	deferred []sequenced[V]
	lock     sync.Mutex
}

type sequenced[V any] struct {
	seq   int
	value V
}

// NewSequencer creates a Sequencer that passes messages to deliver in sequence order. deliver is
// called while the Sequencer's lock is held, so it must not call back into the Sequencer.
func NewSequencer[V any](deliver func(seq int, value V)) *Sequencer[V] {
	return &Sequencer[V]{deliver: deliver}
}

// Accept adds a message, delivering it and any held messages that follow it if it is next in
// sequence. A message whose sequence number has already been delivered is dropped.
func (q *Sequencer[V]) Accept(seq int, value V) {
	q.lock.Lock()
	defer q.lock.Unlock()
	switch {
	case seq <= q.last:
		return
	case seq > q.last+1:
		q.deferred = append(q.deferred, sequenced[V]{seq: seq, value: value})
		sort.Slice(q.deferred, func(i, j int) bool { return q.deferred[i].seq < q.deferred[j].seq })
		return
	}
	q.last = seq
	q.deliver(seq, value)
	for len(q.deferred) > 0 && q.deferred[0].seq == q.last+1 {
		next := q.deferred[0]
		q.deferred = q.deferred[1:]
		q.last = next.seq
		q.deliver(next.seq, next.value)
	}
}

// Held returns the messages that are waiting for an earlier message, in sequence order.
func (q *Sequencer[V]) Held() []V {
	q.lock.Lock()
	defer q.lock.Unlock()
	ret := make([]V, 0, len(q.deferred))
	for _, d := range q.deferred {
		ret = append(ret, d.value)
	}
	return ret
}
