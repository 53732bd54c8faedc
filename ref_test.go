// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/ulfq"
)

func TestRef(t *testing.T) {
	t.Run("zero Ref holds nil", func(t *testing.T) {
		var r ulfq.Ref[int]
		assert.Nil(t, r.Load())
	})
	t.Run("NewRef holds its value", func(t *testing.T) {
		v := 1
		r := ulfq.NewRef(&v)
		assert.Same(t, &v, r.Load())
	})
	t.Run("Store is immediately visible", func(t *testing.T) {
		var r ulfq.Ref[int]
		v := 2
		r.Store(&v)
		assert.Same(t, &v, r.Load())
	})
	t.Run("Swap returns the previous reference", func(t *testing.T) {
		a, b := 1, 2
		r := ulfq.NewRef(&a)
		assert.Same(t, &a, r.Swap(&b))
		assert.Same(t, &b, r.Load())
	})
	t.Run("CompareAndSwap succeeds on the same reference", func(t *testing.T) {
		a, b := 1, 2
		r := ulfq.NewRef(&a)
		require.True(t, r.CompareAndSwap(&a, &b))
		assert.Same(t, &b, r.Load())
	})
	t.Run("CompareAndSwap compares references, not values", func(t *testing.T) {
		a, twin, b := 1, 1, 2
		r := ulfq.NewRef(&a)
		require.False(t, r.CompareAndSwap(&twin, &b))
		assert.Same(t, &a, r.Load())
	})
	t.Run("String names the element type", func(t *testing.T) {
		var r ulfq.Ref[string]
		assert.Equal(t, "Ref[string]", r.String())
	})
}

// TestRefConcurrentSwap verifies no Swap is lost: every stored reference is
// returned exactly once, either by a later Swap or by the final Load.
func TestRefConcurrentSwap(t *testing.T) {
	const (
		goroutines = 8
		perG       = 2000
	)

	var r ulfq.Ref[int]
	results := make([][]*int, goroutines)

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range perG {
				v := id*perG + i
				if old := r.Swap(&v); old != nil {
					results[id] = append(results[id], old)
				}
			}
		}(g)
	}
	wg.Wait()

	seen := make(map[int]int)
	for _, rs := range results {
		for _, p := range rs {
			seen[*p]++
		}
	}
	seen[*r.Load()]++

	require.Len(t, seen, goroutines*perG)
	for v, n := range seen {
		require.Equalf(t, 1, n, "value %d seen %d times", v, n)
	}
}
