// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ulfq_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/ulfq"
)

// =============================================================================
// Generic Linearizability Test Helper
// =============================================================================

// linearizabilityTest launches numP producers and numC consumers.
// Each producer enqueues itemsPerProd values encoded as
// producerID*itemsPerProd + sequence, so every value is globally unique.
// Consumers drain until production has finished and the queue is empty.
type linearizabilityTest struct {
	t            *testing.T
	numP, numC   int
	itemsPerProd int
	timeout      time.Duration
}

func (lt *linearizabilityTest) run(q ulfq.Queue[int]) {
	t := lt.t
	skipUnderRace(t, q)

	expectedTotal := lt.numP * lt.itemsPerProd
	seen := make([]atomix.Int32, expectedTotal)
	var consumed atomix.Int64
	var produced atomix.Bool
	var timedOut atomix.Bool

	// Producers
	var prodWg sync.WaitGroup
	for p := range lt.numP {
		prodWg.Add(1)
		go func(id int) {
			defer prodWg.Done()
			for i := range lt.itemsPerProd {
				q.Enqueue(id*lt.itemsPerProd + i)
			}
		}(p)
	}

	// Consumers
	var consWg sync.WaitGroup
	for range lt.numC {
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			deadline := time.Now().Add(lt.timeout)
			backoff := iox.Backoff{}
			for {
				v, ok := q.Dequeue().Get()
				if ok {
					if v < 0 || v >= expectedTotal {
						t.Errorf("value out of range: %d", v)
						continue
					}
					seen[v].Add(1)
					consumed.Add(1)
					backoff.Reset()
					continue
				}
				if produced.Load() && q.IsEmpty() {
					return
				}
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				backoff.Wait()
			}
		}()
	}

	prodWg.Wait()
	produced.Store(true)
	consWg.Wait()

	var missing, duplicates int
	for i := range expectedTotal {
		switch count := seen[i].Load(); {
		case count == 0:
			missing++
		case count > 1:
			duplicates++
		}
	}

	if timedOut.Load() {
		t.Errorf("timeout after %v: consumed %d/%d", lt.timeout, consumed.Load(), expectedTotal)
	}
	if duplicates > 0 {
		t.Errorf("linearizability violation: %d duplicates detected", duplicates)
	}
	if missing > 0 {
		t.Errorf("lost elements: %d missing", missing)
	}
	if got := consumed.Load(); got != int64(expectedTotal) {
		t.Errorf("consumed: got %d, want %d", got, expectedTotal)
	}
}

// =============================================================================
// No Loss, No Duplication
// =============================================================================

func TestLinearizabilityLinked(t *testing.T) {
	lt := &linearizabilityTest{t: t, numP: 4, numC: 4, itemsPerProd: 5000, timeout: 10 * time.Second}
	lt.run(ulfq.NewLinked[int]())
}

func TestLinearizabilitySegmented(t *testing.T) {
	lt := &linearizabilityTest{t: t, numP: 4, numC: 4, itemsPerProd: 5000, timeout: 10 * time.Second}
	lt.run(ulfq.NewSegmented[int]())
}

func TestLinearizabilityManyProducersOneConsumer(t *testing.T) {
	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			lt := &linearizabilityTest{t: t, numP: 8, numC: 1, itemsPerProd: 2000, timeout: 10 * time.Second}
			lt.run(f.new())
		})
	}
}

func TestLinearizabilityOneProducerManyConsumers(t *testing.T) {
	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			lt := &linearizabilityTest{t: t, numP: 1, numC: 8, itemsPerProd: 16000, timeout: 10 * time.Second}
			lt.run(f.new())
		})
	}
}

// =============================================================================
// Stress - 8 Producers × 10,000, 4 Consumers
// =============================================================================

func TestStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skip: stress test in short mode")
	}
	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			lt := &linearizabilityTest{t: t, numP: 8, numC: 4, itemsPerProd: 10000, timeout: 30 * time.Second}
			lt.run(f.new())
		})
	}
}

// =============================================================================
// FIFO per Producer
// =============================================================================

// TestSingleProducerFIFO verifies every consumer sees the single producer's
// values in strictly increasing order.
func TestSingleProducerFIFO(t *testing.T) {
	const (
		total     = 50000
		consumers = 4
	)

	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			q := f.new()
			skipUnderRace(t, q)
			var consumed atomix.Int64
			var wg sync.WaitGroup

			for c := range consumers {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					last := -1
					backoff := iox.Backoff{}
					deadline := time.Now().Add(10 * time.Second)
					for consumed.Load() < total {
						v, ok := q.Dequeue().Get()
						if !ok {
							if time.Now().After(deadline) {
								t.Errorf("consumer %d: timeout", id)
								return
							}
							backoff.Wait()
							continue
						}
						backoff.Reset()
						if v <= last {
							t.Errorf("consumer %d: got %d after %d", id, v, last)
						}
						last = v
						consumed.Add(1)
					}
				}(c)
			}

			for i := range total {
				q.Enqueue(i)
			}
			wg.Wait()

			if got := consumed.Load(); got != total {
				t.Fatalf("consumed: got %d, want %d", got, total)
			}
		})
	}
}

// TestPerProducerFIFO verifies, with several producers and one consumer,
// that each producer's values arrive in the order it enqueued them.
func TestPerProducerFIFO(t *testing.T) {
	const (
		producers = 6
		perProd   = 10000
	)

	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			q := f.new()
			skipUnderRace(t, q)
			var wg sync.WaitGroup
			for p := range producers {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for i := range perProd {
						q.Enqueue(id*perProd + i)
					}
				}(p)
			}

			last := make([]int, producers)
			for i := range last {
				last[i] = -1
			}
			deadline := time.Now().Add(10 * time.Second)
			backoff := iox.Backoff{}
			for n := 0; n < producers*perProd; {
				v, ok := q.Dequeue().Get()
				if !ok {
					if time.Now().After(deadline) {
						t.Fatalf("timeout: consumed %d/%d", n, producers*perProd)
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()
				id, seq := v/perProd, v%perProd
				if seq <= last[id] {
					t.Fatalf("producer %d: got seq %d after %d", id, seq, last[id])
				}
				last[id] = seq
				n++
			}
			wg.Wait()
		})
	}
}

// =============================================================================
// Weakly Consistent Readers
// =============================================================================

// TestConcurrentReaders runs Peek, Len, Snapshot and IsEmpty against live
// producers and consumers. Readers must never fail or return values that
// were never enqueued.
func TestConcurrentReaders(t *testing.T) {
	const total = 40000

	for _, f := range queueFactories {
		if f.name == "List" {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			q := f.new()
			skipUnderRace(t, q)
			var done atomix.Bool
			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range total {
					q.Enqueue(i)
				}
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				backoff := iox.Backoff{}
				for n := 0; n < total; {
					if q.Dequeue().IsSome() {
						n++
						backoff.Reset()
						continue
					}
					backoff.Wait()
				}
				done.Store(true)
			}()

			for range 2 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for !done.Load() {
						if v, ok := q.Peek().Get(); ok && (v < 0 || v >= total) {
							t.Errorf("Peek: value out of range: %d", v)
						}
						if n := q.Len(); n < 0 || n > total {
							t.Errorf("Len out of range: %d", n)
						}
						prev := -1
						for _, v := range q.Snapshot() {
							if v <= prev || v >= total {
								t.Errorf("Snapshot: %d after %d", v, prev)
								break
							}
							prev = v
						}
						q.IsEmpty()
					}
				}()
			}

			wg.Wait()
			if !q.IsEmpty() {
				t.Fatalf("IsEmpty after drain: got false")
			}
		})
	}
}
