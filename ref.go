// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import (
	"reflect"

	"go.uber.org/atomic"
)

// Ref is an atomically updated reference to a T.
//
// Every operation is a single atomic instruction on one cell and is
// therefore wait-free. Ref says nothing about consistency between two
// different cells; algorithms that touch several Refs re-validate their
// snapshots themselves (see Linked).
//
// CompareAndSwap compares pointers, never the pointed-to values.
//
// The zero Ref holds nil and is ready to use. A Ref must not be copied
// after first use.
type Ref[T any] struct {
	p atomic.Pointer[T]
}

// NewRef returns a Ref holding v.
func NewRef[T any](v *T) *Ref[T] {
	r := &Ref[T]{}
	r.p.Store(v)
	return r
}

// Load returns the current reference.
func (r *Ref[T]) Load() *T {
	return r.p.Load()
}

// Store sets the reference. The store is visible to subsequent Loads on
// any goroutine; it is not deferred.
func (r *Ref[T]) Store(v *T) {
	r.p.Store(v)
}

// CompareAndSwap stores update if the current reference is old and reports
// whether it did.
func (r *Ref[T]) CompareAndSwap(old, update *T) bool {
	return r.p.CompareAndSwap(old, update)
}

// Swap stores update and returns the previous reference.
func (r *Ref[T]) Swap(update *T) *T {
	return r.p.Swap(update)
}

func (r *Ref[T]) String() string {
	return "Ref[" + reflect.TypeFor[T]().String() + "]"
}
