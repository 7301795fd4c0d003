// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type syncJob struct {
	manager     SyncManager
	collections []string
	opts        models.PullOptions
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a job that syncs every collection on a ticker. The job
// is idle until Start is called.
func NewSyncJob(manager SyncManager, collections []string, opts models.PullOptions, log *logger.Logger) SyncJob {
	return &syncJob{
		manager:     manager,
		collections: append([]string(nil), collections...),
		opts:        opts,
		logger:      log,
	}
}

func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.syncAll(jobCtx)
			}
		}
	}()
}

func (j *syncJob) syncAll(ctx context.Context) {
	for _, collection := range j.collections {
		if ctx.Err() != nil {
			return
		}
		result, err := j.manager.Sync(ctx, collection, nil, j.opts)
		if err != nil {
			j.logger.Warn().Err(err).Str("collection", collection).Msg("background sync failed")
			continue
		}
		if result.Push.ErrorCount > 0 {
			j.logger.Warn().Str("collection", collection).Int("errors", result.Push.ErrorCount).Msg("background sync left entries pending")
		}
	}
}

func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
