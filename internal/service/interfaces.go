// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-store/models"
)

// SyncManager replays pending local mutations against the network and
// reconciles remote state into the local caches of one tag.
type SyncManager interface {
	// Push replays the pending entries of collection, oldest first. A
	// non-nil q is matched against the queue entries, so {"_id": ...}
	// selects entries by document id. Failures of single entries are
	// reported in the result; only storage faults are returned as error.
	Push(ctx context.Context, collection string, q *models.Query) (models.PushResult, error)

	// Pull fetches the documents selected by q and reconciles them into the
	// entity cache. Documents with pending entries are left untouched. It
	// returns the selection of q as the entity cache holds it afterwards,
	// so pending local changes show through; for a paginated q the window
	// is the one the server returned. Full and delta pulls return the same.
	Pull(ctx context.Context, collection string, q *models.Query, opts models.PullOptions) ([]models.Document, error)

	// Sync pushes every pending entry of collection, then pulls q. Push
	// failures do not prevent the pull.
	Sync(ctx context.Context, collection string, q *models.Query, opts models.PullOptions) (models.SyncResult, error)

	// PendingCount returns how many entries of collection await a push.
	PendingCount(ctx context.Context, collection string, q *models.Query) (int, error)

	// PendingEntries returns the entries of collection in replay order.
	PendingEntries(ctx context.Context, collection string, q *models.Query) ([]models.SyncEntry, error)

	// ClearSync drops pending entries without replaying them.
	ClearSync(ctx context.Context, collection string, q *models.Query) (int, error)
}

// SyncStore is a collection handle working offline first: reads and writes
// go to the local cache, writes are queued and reach the network on Push.
type SyncStore interface {
	// Collection returns the remote collection name.
	Collection() string

	// Find returns the local documents selected by q.
	Find(ctx context.Context, q *models.Query) ([]models.Document, error)

	// FindByID fails with an errs.KindNotFound error for an unknown id.
	FindByID(ctx context.Context, id string) (models.Document, error)

	// Count returns how many local documents match q.
	Count(ctx context.Context, q *models.Query) (int, error)

	// Create stores doc locally, assigning a local id when it has none, and
	// queues a PUT.
	Create(ctx context.Context, doc models.Document) (models.Document, error)

	// Update replaces the local document with doc's id and queues a PUT.
	Update(ctx context.Context, doc models.Document) (models.Document, error)

	// Save creates doc when it has no id and updates it otherwise.
	Save(ctx context.Context, doc models.Document) (models.Document, error)

	// Remove deletes the local documents selected by q and queues their
	// removal. It returns how many documents went away.
	Remove(ctx context.Context, q *models.Query) (int, error)

	// RemoveByID deletes one document. Unknown ids give 0.
	RemoveByID(ctx context.Context, id string) (int, error)

	// Clear drops local documents selected by q together with their pending
	// entries. Nothing is sent to the network.
	Clear(ctx context.Context, q *models.Query) (int, error)

	Push(ctx context.Context, q *models.Query) (models.PushResult, error)
	Pull(ctx context.Context, q *models.Query, opts models.PullOptions) ([]models.Document, error)
	Sync(ctx context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error)
	PendingSyncCount(ctx context.Context, q *models.Query) (int, error)
	PendingSyncEntries(ctx context.Context, q *models.Query) ([]models.SyncEntry, error)
	ClearSync(ctx context.Context, q *models.Query) (int, error)
}

// CacheStore is a collection handle reading through the local cache: a
// find answers from the cache first and then from the network, writes go
// to the cache and are pushed immediately.
type CacheStore interface {
	Collection() string

	// Find emits the local result, then the network result unless q was
	// pulled recently and opts does not force a refresh. The channel is
	// closed after the last emission.
	Find(ctx context.Context, q *models.Query, opts models.FindOptions) <-chan FindResult

	// FindByID asks the network first and falls back to the local copy
	// when the network is unreachable.
	FindByID(ctx context.Context, id string) (models.Document, error)

	// Count asks the network first and falls back to the local count.
	Count(ctx context.Context, q *models.Query) (int, error)

	Create(ctx context.Context, doc models.Document) (models.Document, error)
	Update(ctx context.Context, doc models.Document) (models.Document, error)
	Save(ctx context.Context, doc models.Document) (models.Document, error)
	Remove(ctx context.Context, q *models.Query) (int, error)
	RemoveByID(ctx context.Context, id string) (int, error)
	Clear(ctx context.Context, q *models.Query) (int, error)

	Push(ctx context.Context, q *models.Query) (models.PushResult, error)
	Pull(ctx context.Context, q *models.Query, opts models.PullOptions) ([]models.Document, error)
	Sync(ctx context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error)
	PendingSyncCount(ctx context.Context, q *models.Query) (int, error)
}

// SyncJob periodically syncs a fixed set of collections.
type SyncJob interface {
	// Start launches the background loop. It syncs every interval,
	// defaulting to 5 minutes if interval is zero or negative. A running
	// loop is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop ends the loop and waits for it. Safe to call when idle.
	Stop()
}
