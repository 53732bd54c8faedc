// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stress runs producer/consumer workloads against ulfq queues and
// verifies that every element is delivered exactly once.
package stress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/ulfq"
)

var (
	// ErrLost reports elements that were enqueued but never dequeued.
	ErrLost = errors.New("stress: elements lost")

	// ErrDuplicated reports elements that were dequeued more than once.
	ErrDuplicated = errors.New("stress: elements duplicated")
)

// Report summarizes a run.
type Report struct {
	Queue      string
	Produced   int
	Consumed   int64
	Missing    int
	Duplicates int
	MaxBacklog int // Largest sampled queue length
	Elapsed    time.Duration
}

// Run enqueues cfg.Total() distinct integers from cfg.Producers goroutines
// while cfg.Consumers goroutines drain the queue. Consumers stop once all
// producers have returned and the queue is empty.
//
// Run returns a non-nil Report whenever the workload completed; the error
// then wraps ErrLost and/or ErrDuplicated if delivery was not exactly once.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	q := cfg.newQueue()
	total := cfg.Total()
	seen := make([]atomix.Int32, total)
	var produced atomix.Bool
	var consumed atomix.Int64
	backlog := ulfq.NewShared(0)

	logger.Info("stress run starting",
		zap.String("queue", cfg.Queue),
		zap.Int("producers", cfg.Producers),
		zap.Int("consumers", cfg.Consumers),
		zap.Int("total", total))
	start := time.Now()

	consumers, cctx := errgroup.WithContext(ctx)
	for c := range cfg.Consumers {
		consumers.Go(func() error {
			backoff := iox.Backoff{}
			n := 0
			for {
				v, ok := q.Dequeue().Get()
				if ok {
					if v < 0 || v >= total {
						return fmt.Errorf("stress: consumer %d: value out of range: %d", c, v)
					}
					seen[v].Add(1)
					consumed.Add(1)
					n++
					if cfg.SampleEvery > 0 && n%cfg.SampleEvery == 0 {
						backlog.Reduce(q.Len(), func(cur, v int) int { return max(cur, v) })
					}
					backoff.Reset()
					continue
				}
				if produced.Load() && q.IsEmpty() {
					logger.Debug("consumer finished", zap.Int("consumer", c), zap.Int("dequeued", n))
					return nil
				}
				if err := cctx.Err(); err != nil {
					return fmt.Errorf("stress: consumer %d: %w", c, err)
				}
				backoff.Wait()
			}
		})
	}

	producers, pctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		producers.Go(func() error {
			base := p * cfg.ItemsPerProducer
			for i := range cfg.ItemsPerProducer {
				if i%1024 == 0 {
					if err := pctx.Err(); err != nil {
						return fmt.Errorf("stress: producer %d: %w", p, err)
					}
				}
				q.Enqueue(base + i)
			}
			logger.Debug("producer finished", zap.Int("producer", p))
			return nil
		})
	}

	perr := producers.Wait()
	produced.Store(true)
	cerr := consumers.Wait()
	if err := multierr.Combine(perr, cerr); err != nil {
		return nil, err
	}

	report := &Report{
		Queue:      cfg.Queue,
		Produced:   total,
		Consumed:   consumed.Load(),
		MaxBacklog: backlog.Load(),
		Elapsed:    time.Since(start),
	}
	for i := range seen {
		switch n := seen[i].Load(); {
		case n == 0:
			report.Missing++
		case n > 1:
			report.Duplicates++
		}
	}

	var err error
	if report.Missing > 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d of %d", ErrLost, report.Missing, total))
	}
	if report.Duplicates > 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d of %d", ErrDuplicated, report.Duplicates, total))
	}

	logger.Info("stress run finished",
		zap.String("queue", report.Queue),
		zap.Int64("consumed", report.Consumed),
		zap.Int("missing", report.Missing),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("maxBacklog", report.MaxBacklog),
		zap.Duration("elapsed", report.Elapsed))
	return report, err
}
