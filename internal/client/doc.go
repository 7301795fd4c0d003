// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client initializes a sync store client: local storage, the cache
// registry, the user session, the network transport and the sync engine.
// Collection stores are handed out by [Client.SyncStore] and
// [Client.CacheStore].
package client
