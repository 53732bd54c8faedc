// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import "iter"

// List is an unbounded FIFO queue for use by a single goroutine.
//
// List has the same method set as Linked and Segmented but no
// synchronization at all. It is the behavioral reference the concurrent
// queues are tested against, and the cheapest choice when a queue never
// crosses goroutines.
type List[T any] struct {
	head *listNode[T]
	tail *listNode[T]
	n    int
}

type listNode[T any] struct {
	value T
	next  *listNode[T]
}

// NewList creates an empty List.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Enqueue appends item to the queue.
func (q *List[T]) Enqueue(item T) {
	n := &listNode[T]{value: item}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.n++
}

// Dequeue removes and returns the head element.
// Returns None if the queue is empty.
func (q *List[T]) Dequeue() Option[T] {
	if q.head == nil {
		return None[T]()
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.n--
	return Some(n.value)
}

// Peek returns the head element without removing it.
func (q *List[T]) Peek() Option[T] {
	if q.head == nil {
		return None[T]()
	}
	return Some(q.head.value)
}

// IsEmpty reports whether the queue has no elements.
func (q *List[T]) IsEmpty() bool {
	return q.head == nil
}

// Clear discards all elements.
func (q *List[T]) Clear() {
	q.head, q.tail, q.n = nil, nil, 0
}

// Len returns the number of elements.
func (q *List[T]) Len() int {
	return q.n
}

// Snapshot returns the elements in FIFO order.
func (q *List[T]) Snapshot() []T {
	out := make([]T, 0, q.n)
	for n := q.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// All yields the elements in FIFO order.
func (q *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := q.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}
