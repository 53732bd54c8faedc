// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq

import (
	"context"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the queue had no element to hand out.
//
// Queues themselves report emptiness as None. ErrWouldBlock is used by the
// error-returning adapters TryDequeue and DequeueWait so that ulfq queues
// compose with code written against the iox error vocabulary.
//
// ErrWouldBlock is a control flow signal, not a failure.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// TryDequeue removes the head element of c.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func TryDequeue[T any](c Consumer[T]) (T, error) {
	if v, ok := c.Dequeue().Get(); ok {
		return v, nil
	}
	var zero T
	return zero, ErrWouldBlock
}

// DequeueWait polls c until an element is available or ctx is done.
//
// The queue is never blocked on: DequeueWait calls Dequeue repeatedly and
// backs off between empty polls with [iox.Backoff]. Giving up leaves the
// queue untouched. Returns ctx.Err() when ctx ends first.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Second)
//	defer cancel()
//	job, err := ulfq.DequeueWait(ctx, q)
//	if err != nil {
//	    return err // context.DeadlineExceeded
//	}
func DequeueWait[T any](ctx context.Context, c Consumer[T]) (T, error) {
	backoff := iox.Backoff{}
	for {
		if v, ok := c.Dequeue().Get(); ok {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		backoff.Wait()
	}
}
