// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache implements the local side of the sync store: the per
// collection entity cache, the queue of pending mutations and the query
// freshness cache. All three sit on top of a [store.Adapter].
//
// Every operation on one cache instance runs through a FIFO task queue of
// concurrency one, so reads never observe a half-applied write. Instances
// for different collections or tags do not share a queue.
package cache
