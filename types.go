// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import "iter"

// Queue is the combined producer-consumer interface for an unbounded FIFO
// queue.
//
// Enqueue never fails and never blocks. Dequeue and Peek return None when
// the queue is empty; they never block waiting for an element.
//
// Example:
//
//	q := ulfq.NewLinked[int]()
//
//	q.Enqueue(42)
//
//	if v, ok := q.Dequeue().Get(); ok {
//	    fmt.Println(v)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// IsEmpty reports whether the queue was empty at some instant during
	// the call. The answer may be stale by the time it is returned.
	IsEmpty() bool

	// Clear resets the queue to empty.
	//
	// Clear is not safe against concurrent Enqueue or Dequeue. Call it only
	// when the caller has exclusive access to the queue.
	Clear()
}

// Producer is the interface for enqueueing elements.
type Producer[T any] interface {
	// Enqueue appends item to the tail of the queue.
	// It always succeeds; under contention it retries internally.
	Enqueue(item T)
}

// Consumer is the interface for dequeueing elements.
//
// A dequeued element is owned by the caller: the queue never hands the same
// element to two consumers.
type Consumer[T any] interface {
	// Dequeue removes and returns the head element.
	// Returns None iff the queue was empty at some consistent instant
	// during the call.
	Dequeue() Option[T]

	// Peek returns the head element without removing it.
	// The result is weakly consistent: a concurrent Dequeue may already
	// have removed the element by the time the caller sees it.
	Peek() Option[T]
}

// Enumerable is implemented by queues that can report their contents.
//
// All three methods are diagnostic. Under concurrent mutation they reflect
// some interleaving of in-flight operations and never fail.
type Enumerable[T any] interface {
	// Len returns the number of elements.
	Len() int

	// Snapshot returns the elements in FIFO order.
	Snapshot() []T

	// All yields the elements in FIFO order.
	All() iter.Seq[T]
}

// Compile-time interface checks.
var (
	_ Queue[int]      = (*Linked[int])(nil)
	_ Queue[int]      = (*Segmented[int])(nil)
	_ Queue[int]      = (*List[int])(nil)
	_ Enumerable[int] = (*Linked[int])(nil)
	_ Enumerable[int] = (*Segmented[int])(nil)
	_ Enumerable[int] = (*List[int])(nil)
)
