// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ulfq provides unbounded lock-free FIFO queues.
//
// Any number of goroutines may enqueue and dequeue concurrently. No
// operation takes a lock, and no operation waits on another goroutine's
// progress: a goroutine that finds a peer's update half done completes it
// and carries on.
//
//   - Linked: Michael & Scott linked queue, one node per element
//   - Segmented: chain of 32-slot array segments, one allocation per 32 elements
//   - List: unsynchronized reference queue for a single goroutine
//
// # Quick Start
//
//	q := ulfq.NewLinked[Event]()
//	q := ulfq.NewSegmented[*Request]()
//
// Builder API selects the implementation:
//
//	q := ulfq.Build[Event](ulfq.New())                    // → Linked
//	q := ulfq.Build[Event](ulfq.New().Segmented())        // → Segmented
//	q := ulfq.Build[Event](ulfq.New().SingleGoroutine())  // → List
//
// # Basic Usage
//
// Enqueue always succeeds. Dequeue and Peek return an [Option]:
//
//	q := ulfq.NewLinked[int]()
//	q.Enqueue(42)
//
//	if v, ok := q.Dequeue().Get(); ok {
//	    fmt.Println(v) // 42
//	}
//
//	q.Dequeue().IsNone() // true: the queue is empty
//
// Calling Value on None panics; emptiness is a normal outcome and must be
// checked with Get, IsSome or Or.
//
// # Waiting for Elements
//
// Queues never block. A consumer that wants to wait polls, with backoff,
// and decides for itself when to give up:
//
//	backoff := iox.Backoff{}
//	for {
//	    job, ok := q.Dequeue().Get()
//	    if !ok {
//	        backoff.Wait()
//	        continue
//	    }
//	    backoff.Reset()
//	    job.Run()
//	}
//
// [DequeueWait] wraps this loop with a context:
//
//	job, err := ulfq.DequeueWait(ctx, q)
//
// [TryDequeue] reports emptiness as [ErrWouldBlock] for code written
// against the iox error vocabulary.
//
// # Ordering
//
// Elements leave in the order their enqueue took effect: the linking CAS
// for Linked, the slot reservation for Segmented. Elements from a single
// producer goroutine are always dequeued in the order that goroutine
// enqueued them. Two enqueues that race have no defined relative order.
//
// # Inspection
//
// IsEmpty, Peek, Len, Snapshot and All observe the queue without changing
// it. Under concurrent mutation they are weakly consistent: they describe
// some real state of the queue during the call, which may already be stale
// when they return. Segmented takes a stable reading of its head and tail
// before walking; Linked walks its links as they are.
//
// # Clearing
//
// Clear resets a queue to empty. It is not safe against concurrent Enqueue
// or Dequeue and must only be used with exclusive access.
//
// # Progress
//
// Every operation is lock-free: some goroutine always completes in a
// bounded number of steps. An individual goroutine may retry repeatedly
// under heavy contention; retries back off with [spin.Wait]. The only
// other wait is in Segmented, where a consumer spins on a slot whose
// producer has reserved it but not yet stored the value.
//
// # Atomic Primitives
//
// [Ref] is an atomic reference cell (load, store, CAS, swap) and underlies
// every pointer the queues swing. [Shared] is a value-comparing reduction
// variable with CompareAndSwap and Reduce built from CAS retry loops.
//
// # Race Detection
//
// Segmented publishes slot values through [atomix] release stores, which
// the race detector may not observe. Concurrent Segmented tests are
// excluded when [RaceEnabled] is set. Linked publishes through sync/atomic
// and is fully visible to the detector.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for segment cursors and
// flags, [code.hybscloud.com/spin] for CPU pause in retry loops,
// [code.hybscloud.com/iox] for semantic errors and backoff, and
// [go.uber.org/atomic] for typed atomic pointers.
package ulfq
