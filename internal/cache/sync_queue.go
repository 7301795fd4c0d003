// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// SyncCollectionName is the reserved collection holding pending mutations.
const SyncCollectionName = "kinvey_sync"

// SyncQueue records at most one pending mutation per (collection, document).
// Entries are kept in enqueue order; re-enqueueing a document replaces its
// entry in place.
type SyncQueue struct {
	cache    *Cache
	versions *utils.UUIDGenerator
	// held by writers that must check an entry and act on it in one step
	guard *taskQueue
}

// NewSyncQueue wraps a cache dedicated to sync entries.
func NewSyncQueue(c *Cache) *SyncQueue {
	return &SyncQueue{
		cache:    c,
		versions: utils.NewUUIDGenerator(),
		guard:    newTaskQueue(),
	}
}

// Exclusive runs fn while no other Exclusive call of the queue runs. fn
// must not call Exclusive itself.
func (q *SyncQueue) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	return q.guard.run(ctx, fn)
}

// Enqueue records state for docID in collection. The later state wins and
// the entry gets a new version.
func (q *SyncQueue) Enqueue(ctx context.Context, docID, collection string, state models.SyncState) error {
	entry := models.SyncEntry{ID: docID, Collection: collection, State: state, Version: q.versions.ObjectID()}
	_, err := q.cache.Save(ctx, entry.ToDocument())
	return err
}

// Dequeue drops the entry of docID in collection. Dropping a missing entry
// is a no-op.
func (q *SyncQueue) Dequeue(ctx context.Context, collection, docID string) error {
	_, err := q.cache.RemoveByID(ctx, models.SyncEntryKey(collection, docID))
	return err
}

// Entry returns the pending entry of docID in collection, if any.
func (q *SyncQueue) Entry(ctx context.Context, collection, docID string) (models.SyncEntry, bool, error) {
	doc, err := q.cache.FindByID(ctx, models.SyncEntryKey(collection, docID))
	if errors.Is(err, errs.ErrNotFound) {
		return models.SyncEntry{}, false, nil
	}
	if err != nil {
		return models.SyncEntry{}, false, err
	}
	return models.SyncEntryFromDocument(doc), true, nil
}

// IsCurrent reports whether entry is still the pending entry of its
// document, i.e. nothing was enqueued for the document since entry was read.
func (q *SyncQueue) IsCurrent(ctx context.Context, entry models.SyncEntry) (bool, error) {
	current, ok, err := q.Entry(ctx, entry.Collection, entry.ID)
	if err != nil || !ok {
		return false, err
	}
	return current.Version == entry.Version, nil
}

// DequeueIfCurrent drops entry unless its document was enqueued again since
// entry was read. It reports whether the entry was dropped. It takes the
// queue's exclusive slot, so it must not run inside Exclusive.
func (q *SyncQueue) DequeueIfCurrent(ctx context.Context, entry models.SyncEntry) (bool, error) {
	var dropped bool
	err := q.Exclusive(ctx, func(ctx context.Context) error {
		current, err := q.IsCurrent(ctx, entry)
		if err != nil || !current {
			return err
		}
		dropped = true
		return q.Dequeue(ctx, entry.Collection, entry.ID)
	})
	return dropped, err
}

// Entries returns the entries of collection, oldest first. A non-nil
// filter query is matched against the entries, with "_id" standing for the
// document id.
func (q *SyncQueue) Entries(ctx context.Context, collection string, filter *models.Query) ([]models.SyncEntry, error) {
	docs, err := q.cache.Find(ctx, entriesQuery(collection, filter))
	if err != nil {
		return nil, err
	}

	entries := make([]models.SyncEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, models.SyncEntryFromDocument(doc))
	}
	return entries, nil
}

// PendingIDs returns the ids of every document of collection that has a
// pending entry.
func (q *SyncQueue) PendingIDs(ctx context.Context, collection string) (map[string]struct{}, error) {
	entries, err := q.Entries(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}
	return ids, nil
}

// Count returns the number of pending entries of collection, or of the
// whole queue when collection is empty.
func (q *SyncQueue) Count(ctx context.Context, collection string) (int, error) {
	if collection == "" {
		return q.cache.Count(ctx, nil)
	}
	return q.cache.Count(ctx, entriesQuery(collection, nil))
}

// Clear drops the entries of collection selected by filter.
func (q *SyncQueue) Clear(ctx context.Context, collection string, filter *models.Query) (int, error) {
	return q.cache.Remove(ctx, entriesQuery(collection, filter))
}

func entriesQuery(collection string, filter *models.Query) *models.Query {
	byCollection := map[string]any{"collection": collection}
	if filter == nil || len(filter.Filter) == 0 {
		return models.NewQuery(byCollection)
	}
	return models.NewQuery(map[string]any{
		"$and": []any{byCollection, entityFilter(filter.Filter)},
	})
}

// entityFilter points "_id" conditions at the document id of the entries.
func entityFilter(filter map[string]any) map[string]any {
	out := make(map[string]any, len(filter))
	for key, value := range filter {
		switch key {
		case models.IDField:
			out[models.SyncEntryIDField] = value
		case "$and", "$or", "$nor":
			clauses, ok := value.([]any)
			if !ok {
				out[key] = value
				continue
			}
			rewritten := make([]any, len(clauses))
			for i, clause := range clauses {
				if m, ok := clause.(map[string]any); ok {
					rewritten[i] = entityFilter(m)
				} else {
					rewritten[i] = clause
				}
			}
			out[key] = rewritten
		default:
			out[key] = value
		}
	}
	return out
}
