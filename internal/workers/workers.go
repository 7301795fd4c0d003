// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}

// syncWorker drives a service.SyncJob for the lifetime of Run.
type syncWorker struct {
	job      service.SyncJob
	interval time.Duration
	logger   *logger.Logger
}

// NewSyncWorker wraps job so it runs every interval until the context ends.
func NewSyncWorker(job service.SyncJob, interval time.Duration, log *logger.Logger) Worker {
	return &syncWorker{job: job, interval: interval, logger: log}
}

func (w *syncWorker) Run(ctx context.Context) error {
	w.logger.Info().Dur("interval", w.interval).Msg("sync worker started")

	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()

	w.logger.Info().Msg("sync worker stopped")
	return nil
}
