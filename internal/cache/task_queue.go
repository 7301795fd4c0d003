// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// taskQueue admits one task at a time in arrival order. A failing task
// releases its slot like any other.
type taskQueue struct {
	sem *semaphore.Weighted
}

func newTaskQueue() *taskQueue {
	return &taskQueue{sem: semaphore.NewWeighted(1)}
}

func (q *taskQueue) run(ctx context.Context, task func(ctx context.Context) error) error {
	if err := q.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.sem.Release(1)

	return task(ctx)
}
