// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import (
	"iter"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// segmentSize is the number of slots per segment.
const segmentSize = 32

// helpAfter is how many failed appends an enqueuer spins through before it
// links a missing successor segment itself.
const helpAfter = 16

// Segmented is an unbounded lock-free multi-producer multi-consumer queue
// built from a chain of fixed-size array segments.
//
// Each segment holds 32 slots and two cursors. Producers reserve a slot
// with Fetch-And-Add on the segment's high cursor, write the value, then
// publish it by setting the slot's filled flag. Consumers claim a slot with
// CAS on the low cursor and spin until the slot is filled. Reservation and
// publication are separate steps, so a consumer may briefly wait on a slot
// whose producer has reserved but not yet written it.
//
// The producer that reserves the last slot links the successor segment and
// publishes it as tail; the consumer that claims the last slot moves head
// to the successor. Either step may be completed by any other goroutine
// that finds it missing, so a stalled goroutine never holds up the chain.
// A successor is linked exactly once.
//
// Compared with Linked, Segmented allocates once per 32 elements instead of
// once per element, at the cost of keeping up to 32 dequeued values
// reachable until their segment is unlinked.
type Segmented[T any] struct {
	_    pad
	head Ref[segment[T]] // Consumer end
	_    padPtr
	tail Ref[segment[T]] // Producer end
	_    padPtr
}

type segment[T any] struct {
	low   atomix.Uint64 // Next slot to claim for removal
	_     padShort
	high  atomix.Uint64 // Next slot to reserve for insertion (FAA, may overshoot)
	_     padShort
	next  Ref[segment[T]]
	index uint64 // Position in the chain
	slots [segmentSize]segmentSlot[T]
}

type segmentSlot[T any] struct {
	filled atomix.Bool
	value  T
}

func newSegment[T any](index uint64) *segment[T] {
	return &segment[T]{index: index}
}

// removed returns the low cursor clamped to the segment size.
func (s *segment[T]) removed() uint64 {
	return min(s.low.LoadAcquire(), segmentSize)
}

// reserved returns the high cursor clamped to the segment size.
func (s *segment[T]) reserved() uint64 {
	return min(s.high.LoadAcquire(), segmentSize)
}

func (s *segment[T]) isEmpty() bool {
	return s.removed() >= s.reserved()
}

// tryAppend reserves a slot and stores item in it.
// Returns false if the segment has no slot left.
func (s *segment[T]) tryAppend(q *Segmented[T], item T) bool {
	if s.high.LoadAcquire() >= segmentSize {
		return false
	}

	i := s.high.AddAcqRel(1) - 1
	if i >= segmentSize {
		return false // Overshoot: the reservation is simply never filled
	}

	slot := &s.slots[i]
	slot.value = item
	slot.filled.StoreRelease(true)

	if i == segmentSize-1 {
		q.grow(s)
	}
	return true
}

// tryRemove claims the lowest unclaimed slot and returns its value.
// Returns false if the segment has no reserved slot left to claim.
func (s *segment[T]) tryRemove(q *Segmented[T]) (T, bool) {
	sw := spin.Wait{}
	low := s.removed()
	for high := s.reserved(); low < high; high = s.reserved() {
		if s.low.CompareAndSwapAcqRel(low, low+1) {
			value := s.load(low)
			if low == segmentSize-1 {
				q.advanceHead(s)
			}
			return value, true
		}
		sw.Once()
		low = s.removed()
	}
	var zero T
	return zero, false
}

// tryPeek returns the value of the lowest unclaimed slot.
func (s *segment[T]) tryPeek() (T, bool) {
	low := s.removed()
	if low >= s.reserved() {
		var zero T
		return zero, false
	}
	return s.load(low), true
}

// load waits until slot i is filled and returns its value.
// The caller must know slot i has been reserved.
func (s *segment[T]) load(i uint64) T {
	slot := &s.slots[i]
	sw := spin.Wait{}
	for !slot.filled.LoadAcquire() {
		sw.Once()
	}
	return slot.value
}

// NewSegmented creates an empty Segmented queue.
func NewSegmented[T any]() *Segmented[T] {
	q := &Segmented[T]{}
	first := newSegment[T](0)
	q.head.Store(first)
	q.tail.Store(first)
	return q
}

// NewSegmentedFrom creates a Segmented queue holding items in order.
func NewSegmentedFrom[T any](items ...T) *Segmented[T] {
	q := NewSegmented[T]()
	for _, item := range items {
		q.Enqueue(item)
	}
	return q
}

// grow returns the successor of the full segment s, linking it first if
// nobody has, and swings tail past s.
func (q *Segmented[T]) grow(s *segment[T]) *segment[T] {
	next := s.next.Load()
	if next == nil {
		next = newSegment[T](s.index + 1)
		if !s.next.CompareAndSwap(nil, next) {
			next = s.next.Load()
		}
	}
	q.tail.CompareAndSwap(s, next)
	return next
}

// Enqueue appends item to the queue. It never blocks and never fails.
func (q *Segmented[T]) Enqueue(item T) {
	sw := spin.Wait{}
	stalls := 0
	for {
		tail := q.tail.Load()
		if tail.tryAppend(q, item) {
			return
		}

		// tail is full; its successor is on the way
		if next := tail.next.Load(); next != nil {
			q.tail.CompareAndSwap(tail, next)
		} else if stalls++; stalls >= helpAfter {
			q.grow(tail)
			stalls = 0
		}
		sw.Once()
	}
}

// Dequeue removes and returns the head element.
// Returns None if the queue is empty.
func (q *Segmented[T]) Dequeue() Option[T] {
	for !q.IsEmpty() {
		if v, ok := q.head.Load().tryRemove(q); ok {
			return Some(v)
		}
	}
	return None[T]()
}

// Peek returns the head element without removing it.
// Returns None if the queue is empty.
func (q *Segmented[T]) Peek() Option[T] {
	for !q.IsEmpty() {
		if v, ok := q.head.Load().tryPeek(); ok {
			return Some(v)
		}
	}
	return None[T]()
}

// IsEmpty reports whether the queue has no elements.
//
// An empty head segment only means an empty queue if it has no successor.
// A drained head with a successor is moved past, so IsEmpty never waits on
// the consumer that drained it.
func (q *Segmented[T]) IsEmpty() bool {
	sw := spin.Wait{}
	for s := q.head.Load(); s.isEmpty(); s = q.head.Load() {
		if s.next.Load() == nil {
			return true
		}
		// s may have filled since isEmpty; advanceHead rechecks low
		q.advanceHead(s)
		sw.Once()
	}
	return false
}

// advanceHead moves head from s to its successor once every slot of s has
// been claimed. A segment with an unclaimed slot is never skipped.
func (q *Segmented[T]) advanceHead(s *segment[T]) {
	if s.low.LoadAcquire() >= segmentSize {
		q.head.CompareAndSwap(s, q.grow(s))
	}
}

// Clear discards all elements.
// Not safe for concurrent use with any other operation.
func (q *Segmented[T]) Clear() {
	first := newSegment[T](0)
	q.head.Store(first)
	q.tail.Store(first)
}

// positions reads head, tail and their cursors until two consecutive reads
// agree, giving a consistent view of the live range.
func (q *Segmented[T]) positions() (head, tail *segment[T], headLow, tailHigh uint64) {
	head = q.head.Load()
	tail = q.tail.Load()
	headLow = head.removed()
	tailHigh = tail.reserved()

	sw := spin.Wait{}
	for head != q.head.Load() || tail != q.tail.Load() ||
		headLow != head.removed() || tailHigh != tail.reserved() ||
		head.index > tail.index {
		sw.Once()
		head = q.head.Load()
		tail = q.tail.Load()
		headLow = head.removed()
		tailHigh = tail.reserved()
	}
	return head, tail, headLow, tailHigh
}

// walk calls fn with each filled slot in the live range, head to tail.
// Slots reserved but not yet filled are skipped.
func (q *Segmented[T]) walk(fn func(T) bool) {
	head, tail, headLow, tailHigh := q.positions()
	for s := head; s != nil; s = s.next.Load() {
		lo, hi := uint64(0), uint64(segmentSize)
		if s == head {
			lo = headLow
		}
		if s == tail {
			hi = tailHigh
		}
		for i := lo; i < hi; i++ {
			slot := &s.slots[i]
			if slot.filled.LoadAcquire() && !fn(slot.value) {
				return
			}
		}
		if s == tail {
			return
		}
	}
}

// Len returns the number of filled slots between head and tail.
// Weakly consistent under concurrent mutation.
func (q *Segmented[T]) Len() int {
	n := 0
	q.walk(func(T) bool {
		n++
		return true
	})
	return n
}

// Snapshot returns the elements in FIFO order.
// Weakly consistent under concurrent mutation.
func (q *Segmented[T]) Snapshot() []T {
	var out []T
	q.walk(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// All yields the elements in FIFO order.
// The range is fixed when iteration begins.
func (q *Segmented[T]) All() iter.Seq[T] {
	return q.walk
}
