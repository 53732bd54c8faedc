// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import (
	"reflect"

	"code.hybscloud.com/spin"
)

// Shared is a lock-free reduction variable holding a value of type T.
//
// Unlike Ref, Shared compares values, not references. Each update installs
// a fresh immutable box through a Ref, so every read observes a complete
// value and a concurrent update is always detected by the box identity.
//
// Reduce is the usual way to fold contributions from many goroutines:
//
//	best := ulfq.NewShared(math.MaxInt)
//	// from any goroutine
//	best.Reduce(cost, func(cur, v int) int { return min(cur, v) })
//
// The zero Shared holds the zero T and is ready to use.
type Shared[T comparable] struct {
	box Ref[T]
}

// NewShared returns a Shared holding v.
func NewShared[T comparable](v T) *Shared[T] {
	s := &Shared[T]{}
	s.box.Store(&v)
	return s
}

func unbox[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Load returns the current value.
func (s *Shared[T]) Load() T {
	return unbox(s.box.Load())
}

// Store sets the value.
func (s *Shared[T]) Store(v T) {
	s.box.Store(&v)
}

// Swap sets the value and returns the previous one.
func (s *Shared[T]) Swap(v T) T {
	return unbox(s.box.Swap(&v))
}

// CompareAndSwap sets the value to update if it currently equals expect,
// and reports whether it did.
//
// A false result means the value was observed unequal to expect; a
// concurrent update that leaves an equal value in place causes a retry,
// not a failure.
func (s *Shared[T]) CompareAndSwap(expect, update T) bool {
	next := &update
	sw := spin.Wait{}
	for {
		cur := s.box.Load()
		if unbox(cur) != expect {
			return false
		}
		if s.box.CompareAndSwap(cur, next) {
			return true
		}
		sw.Once()
	}
}

// WeakCompareAndSwap is CompareAndSwap with a single attempt.
// It may fail spuriously when a concurrent update races with it, even if
// the value still equals expect. Use it inside caller-owned retry loops.
func (s *Shared[T]) WeakCompareAndSwap(expect, update T) bool {
	cur := s.box.Load()
	if unbox(cur) != expect {
		return false
	}
	return s.box.CompareAndSwap(cur, &update)
}

// Reduce combines the current value with v using op and stores the result,
// retrying if another goroutine updated the value in between. It returns
// the stored result.
//
// op may run more than once per call and must be free of side effects.
func (s *Shared[T]) Reduce(v T, op func(current, v T) T) T {
	sw := spin.Wait{}
	for {
		cur := s.box.Load()
		next := op(unbox(cur), v)
		if s.box.CompareAndSwap(cur, &next) {
			return next
		}
		sw.Once()
	}
}

func (s *Shared[T]) String() string {
	return "Shared[" + reflect.TypeFor[T]().String() + "]"
}
