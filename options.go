// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import "unsafe"

// Options configures queue creation and algorithm selection.
type Options struct {
	// Layout hint
	segmented bool // Array segments instead of one node per element

	// Access constraint
	singleGoroutine bool // No concurrent access at all
}

// Builder creates queues with fluent configuration.
//
// Builder selects the implementation from the declared access pattern and
// layout hint.
//
// Example:
//
//	// Linked queue (default, general purpose)
//	q := ulfq.Build[Request](ulfq.New())
//
//	// Segmented queue for high-volume small elements
//	q := ulfq.BuildSegmented[Event](ulfq.New().Segmented())
//
//	// Unsynchronized queue confined to one goroutine
//	q := ulfq.BuildList[Task](ulfq.New().SingleGoroutine())
type Builder struct {
	opts Options
}

// New creates a queue builder.
func New() *Builder {
	return &Builder{}
}

// Segmented selects the array-segment layout: one allocation per 32
// elements instead of one per element.
func (b *Builder) Segmented() *Builder {
	b.opts.segmented = true
	return b
}

// SingleGoroutine declares that only one goroutine will ever touch the
// queue. Selects the unsynchronized List and ignores Segmented().
func (b *Builder) SingleGoroutine() *Builder {
	b.opts.singleGoroutine = true
	return b
}

// Build creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	SingleGoroutine → List (no synchronization)
//	Segmented       → Segmented (32-slot array segments)
//	Neither         → Linked (Michael & Scott)
//
// For typed returns, use:
//   - BuildLinked[T](b) → *Linked[T]
//   - BuildSegmented[T](b) → *Segmented[T]
//   - BuildList[T](b) → *List[T]
func Build[T any](b *Builder) Queue[T] {
	switch {
	case b.opts.singleGoroutine:
		return NewList[T]()
	case b.opts.segmented:
		return NewSegmented[T]()
	default:
		return NewLinked[T]()
	}
}

// BuildLinked creates a Linked queue with compile-time type safety.
// Panics if builder has any option set.
func BuildLinked[T any](b *Builder) *Linked[T] {
	if b.opts.segmented || b.opts.singleGoroutine {
		panic("ulfq: BuildLinked requires no options")
	}
	return NewLinked[T]()
}

// BuildSegmented creates a Segmented queue with compile-time type safety.
// Panics if builder is not configured with Segmented() alone.
func BuildSegmented[T any](b *Builder) *Segmented[T] {
	if !b.opts.segmented || b.opts.singleGoroutine {
		panic("ulfq: BuildSegmented requires Segmented() without SingleGoroutine()")
	}
	return NewSegmented[T]()
}

// BuildList creates a List with compile-time type safety.
// Panics if builder is not configured with SingleGoroutine().
func BuildList[T any](b *Builder) *List[T] {
	if !b.opts.singleGoroutine {
		panic("ulfq: BuildList requires SingleGoroutine()")
	}
	return NewList[T]()
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
