// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stress

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"code.hybscloud.com/ulfq"
)

// Queue kinds accepted by Config.Queue.
const (
	QueueLinked    = "linked"
	QueueSegmented = "segmented"
)

// Config describes one producer/consumer run.
type Config struct {
	// Queue selects the implementation: QueueLinked or QueueSegmented.
	Queue string

	Producers        int
	Consumers        int
	ItemsPerProducer int

	// Timeout bounds the whole run.
	Timeout time.Duration

	// SampleEvery is how many dequeues a consumer performs between backlog
	// samples. Zero disables sampling.
	SampleEvery int
}

// DefaultConfig returns 8 producers × 10,000 items drained by 4 consumers.
func DefaultConfig() Config {
	return Config{
		Queue:            QueueLinked,
		Producers:        8,
		Consumers:        4,
		ItemsPerProducer: 10000,
		Timeout:          30 * time.Second,
		SampleEvery:      4096,
	}
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var err error
	if c.Queue != QueueLinked && c.Queue != QueueSegmented {
		err = multierr.Append(err, fmt.Errorf("stress: unknown queue %q", c.Queue))
	}
	if c.Producers < 1 {
		err = multierr.Append(err, errors.New("stress: producers must be >= 1"))
	}
	if c.Consumers < 1 {
		err = multierr.Append(err, errors.New("stress: consumers must be >= 1"))
	}
	if c.ItemsPerProducer < 1 {
		err = multierr.Append(err, errors.New("stress: items per producer must be >= 1"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, errors.New("stress: timeout must be > 0"))
	}
	if c.SampleEvery < 0 {
		err = multierr.Append(err, errors.New("stress: sample interval must be >= 0"))
	}
	return err
}

// Total returns the number of elements the run enqueues.
func (c Config) Total() int {
	return c.Producers * c.ItemsPerProducer
}

// queue is the surface the harness drives.
type queue interface {
	ulfq.Queue[int]
	ulfq.Enumerable[int]
}

func (c Config) newQueue() queue {
	b := ulfq.New()
	if c.Queue == QueueSegmented {
		return ulfq.BuildSegmented[int](b.Segmented())
	}
	return ulfq.BuildLinked[int](b)
}
