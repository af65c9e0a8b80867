package pipeline

import "sync"

// queue is a bounded multi-producer multi-consumer queue.
//
// Design decision: A plain buffered channel cannot tell a blocked sender
// that every receiver has left, so a producer could block forever once the
// consuming pool has stopped. The gone channel is closed by the consuming
// side when its last worker exits and releases any blocked sender.
type queue[T any] struct {
	items chan T
	gone  chan struct{}

	closeOnce   sync.Once
	abandonOnce sync.Once
}

func newQueue[T any](capacity int) *queue[T] {
	return &queue[T]{
		items: make(chan T, capacity),
		gone:  make(chan struct{}),
	}
}

// send blocks until v is queued. It returns false if the consumers have
// abandoned the queue.
func (q *queue[T]) send(v T) bool {
	select {
	case <-q.gone:
		return false
	default:
	}

	select {
	case q.items <- v:
		return true
	case <-q.gone:
		return false
	}
}

// receive blocks until an item is available. It returns false once the
// queue is closed and drained.
func (q *queue[T]) receive() (T, bool) {
	v, ok := <-q.items
	return v, ok
}

// close marks the end of the stream. Only the sending side calls it, and
// only after every send has returned.
func (q *queue[T]) close() {
	q.closeOnce.Do(func() { close(q.items) })
}

// abandon tells senders that nobody will receive any more items.
func (q *queue[T]) abandon() {
	q.abandonOnce.Do(func() { close(q.gone) })
}

// len returns the number of queued items.
func (q *queue[T]) len() int {
	return len(q.items)
}
