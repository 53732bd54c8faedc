// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import (
	"iter"

	"code.hybscloud.com/spin"
)

// Linked is an unbounded lock-free multi-producer multi-consumer queue.
//
// Based on the non-blocking queue of Michael and Scott (PODC 1996). The
// queue is a singly linked list that always starts with a sentinel node;
// the first element lives in the sentinel's successor. Enqueue links a new
// node after the last node with one CAS and then swings tail with a second
// CAS. Any goroutine that finds tail lagging swings it on the enqueuer's
// behalf, so a stalled enqueuer never holds up the others.
//
// head, tail and every next link are counted pointers: each successful
// swing installs a fresh stamp carrying the previous count + 1, and CAS
// compares stamps, not nodes. Nodes are never reused while reachable, so
// the count is not needed for ABA safety here; it keeps successive
// snapshots of the same node distinguishable.
//
// Memory: one node per element plus one stamp per pointer swing. A removed
// node is released to the garbage collector once head has moved past it
// and no in-flight operation still holds a snapshot of it.
type Linked[T any] struct {
	_    pad
	head Ref[stamp[T]] // Consumer end; points at the sentinel
	_    padPtr
	tail Ref[stamp[T]] // Producer end; last node or one behind it
	_    padPtr
}

type node[T any] struct {
	value T
	next  Ref[stamp[T]]
}

// stamp is a counted pointer. Stamps are immutable once published.
type stamp[T any] struct {
	node  *node[T]
	count uint64
}

// ptr returns the stamped node; a nil stamp names no node.
func (s *stamp[T]) ptr() *node[T] {
	if s == nil {
		return nil
	}
	return s.node
}

func (s *stamp[T]) cnt() uint64 {
	if s == nil {
		return 0
	}
	return s.count
}

// NewLinked creates an empty Linked queue.
func NewLinked[T any]() *Linked[T] {
	q := &Linked[T]{}
	q.reset(0)
	return q
}

func (q *Linked[T]) reset(count uint64) {
	sentinel := &node[T]{}
	q.head.Store(&stamp[T]{node: sentinel, count: count})
	q.tail.Store(&stamp[T]{node: sentinel, count: count})
}

// Enqueue appends item to the queue. It never blocks and never fails.
func (q *Linked[T]) Enqueue(item T) {
	n := &node[T]{value: item}

	var tail *stamp[T]
	sw := spin.Wait{}
	for {
		tail = q.tail.Load()
		next := tail.node.next.Load()

		// tail and next must come from the same tail
		if tail == q.tail.Load() {
			if next.ptr() == nil {
				if tail.node.next.CompareAndSwap(next, &stamp[T]{node: n, count: next.cnt() + 1}) {
					break
				}
			} else {
				// Tail is lagging: finish the other enqueuer's swing
				q.tail.CompareAndSwap(tail, &stamp[T]{node: next.node, count: tail.count + 1})
			}
		}
		sw.Once()
	}

	// Linked; a failed swing means someone already helped
	q.tail.CompareAndSwap(tail, &stamp[T]{node: n, count: tail.count + 1})
}

// Dequeue removes and returns the head element.
// Returns None if the queue is empty.
func (q *Linked[T]) Dequeue() Option[T] {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.node.next.Load()

		if head == q.head.Load() {
			if head.node == tail.node {
				if next.ptr() == nil {
					return None[T]()
				}
				// Tail is lagging behind a linked node
				q.tail.CompareAndSwap(tail, &stamp[T]{node: next.node, count: tail.count + 1})
			} else {
				// Read before the CAS: once head moves, next is the new
				// sentinel and may be dequeued past by others
				item := next.node.value
				if q.head.CompareAndSwap(head, &stamp[T]{node: next.node, count: head.count + 1}) {
					return Some(item)
				}
			}
		}
		sw.Once()
	}
}

// Peek returns the head element without removing it.
// Returns None if the queue is empty.
func (q *Linked[T]) Peek() Option[T] {
	first := q.head.Load().node.next.Load().ptr()
	if first == nil {
		return None[T]()
	}
	return Some(first.value)
}

// IsEmpty reports whether the queue has no elements.
func (q *Linked[T]) IsEmpty() bool {
	return q.head.Load().node.next.Load().ptr() == nil
}

// Clear discards all elements.
// Not safe for concurrent use with any other operation.
func (q *Linked[T]) Clear() {
	q.reset(q.head.Load().count + 1)
}

// Len returns the number of elements by walking the list.
// Weakly consistent under concurrent mutation. O(n).
func (q *Linked[T]) Len() int {
	n := 0
	for range q.All() {
		n++
	}
	return n
}

// Snapshot returns the elements in FIFO order.
// Weakly consistent under concurrent mutation.
func (q *Linked[T]) Snapshot() []T {
	var out []T
	for v := range q.All() {
		out = append(out, v)
	}
	return out
}

// All yields the elements from head to tail.
//
// The walk starts at the successor of the sentinel current when iteration
// begins and follows next links. Elements enqueued or dequeued during the
// walk may or may not be observed; the walk never fails.
func (q *Linked[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := q.head.Load().node.next.Load().ptr(); n != nil; n = n.next.Load().ptr() {
			if !yield(n.value) {
				return
			}
		}
	}
}
