// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import "fmt"

// Option is an immutable value that is either Some(value) or None.
//
// Dequeue and Peek return an Option instead of an error: an empty queue is
// a normal outcome, not a failure. The zero Option is None.
//
// Example:
//
//	q := ulfq.NewLinked[int]()
//	q.Enqueue(42)
//
//	if v, ok := q.Dequeue().Get(); ok {
//	    fmt.Println(v) // 42
//	}
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns the absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the Option holds a value.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// Value returns the held value.
// Panics if the Option is None: callers must check IsSome first or use Get.
func (o Option[T]) Value() T {
	if !o.ok {
		panic("ulfq: Value called on None")
	}
	return o.value
}

// Get returns the held value and true, or the zero value and false.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Or returns the held value, or def if the Option is None.
func (o Option[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

func (o Option[T]) String() string {
	if o.ok {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}
