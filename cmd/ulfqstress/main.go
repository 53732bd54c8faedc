// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ulfqstress runs a producer/consumer stress workload against a
// ulfq queue and verifies exactly-once delivery.
//
// Usage:
//
//	go run ./cmd/ulfqstress -queue segmented -producers 8 -consumers 4 -n 10000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"code.hybscloud.com/ulfq/internal/stress"
)

func main() {
	def := stress.DefaultConfig()
	cfg := stress.Config{}
	flag.StringVar(&cfg.Queue, "queue", def.Queue, "queue implementation: linked or segmented")
	flag.IntVar(&cfg.Producers, "producers", def.Producers, "number of producer goroutines")
	flag.IntVar(&cfg.Consumers, "consumers", def.Consumers, "number of consumer goroutines")
	flag.IntVar(&cfg.ItemsPerProducer, "n", def.ItemsPerProducer, "items enqueued per producer")
	flag.DurationVar(&cfg.Timeout, "timeout", def.Timeout, "upper bound on the whole run")
	flag.IntVar(&cfg.SampleEvery, "sample", def.SampleEvery, "dequeues between backlog samples (0 disables)")
	dev := flag.Bool("dev", false, "human-readable debug logging")
	flag.Parse()

	logger, err := newLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ulfqstress: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := stress.Run(ctx, cfg, logger)
	if err != nil {
		logger.Error("stress run failed", zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}

	perOp := float64(report.Elapsed.Nanoseconds()) / float64(report.Produced)
	fmt.Printf("%s: %d elements in %v (%.2f ns/element, max backlog %d)\n",
		report.Queue, report.Consumed, report.Elapsed, perOp, report.MaxBacklog)
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
