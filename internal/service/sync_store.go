// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type syncStore struct {
	collection string
	entities   *cache.Cache
	queue      *cache.SyncQueue
	queries    *cache.QueryCache
	manager    SyncManager
	logger     *logger.Logger
}

// NewSyncStore returns the offline-first handle of collection under tag.
func NewSyncStore(registry *cache.Registry, manager SyncManager, collection, tag string, log *logger.Logger) (SyncStore, error) {
	return newSyncStore(registry, manager, collection, tag, log)
}

func newSyncStore(registry *cache.Registry, manager SyncManager, collection, tag string, log *logger.Logger) (*syncStore, error) {
	entities, err := registry.EntityCache(collection, tag)
	if err != nil {
		return nil, err
	}
	queue, err := registry.SyncQueue(tag)
	if err != nil {
		return nil, err
	}
	queries, err := registry.QueryCache(collection, tag)
	if err != nil {
		return nil, err
	}

	return &syncStore{
		collection: collection,
		entities:   entities,
		queue:      queue,
		queries:    queries,
		manager:    manager,
		logger:     log,
	}, nil
}

func (s *syncStore) Collection() string {
	return s.collection
}

func (s *syncStore) Find(ctx context.Context, q *models.Query) ([]models.Document, error) {
	return s.entities.Find(ctx, q)
}

func (s *syncStore) FindByID(ctx context.Context, id string) (models.Document, error) {
	return s.entities.FindByID(ctx, id)
}

func (s *syncStore) Count(ctx context.Context, q *models.Query) (int, error) {
	return s.entities.Count(ctx, q)
}

func (s *syncStore) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	return s.put(ctx, doc)
}

func (s *syncStore) Update(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc.ID() == "" {
		return nil, errs.New(errs.KindKinvey, "cannot update a document without _id")
	}
	return s.put(ctx, doc)
}

func (s *syncStore) Save(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc.ID() == "" {
		return s.Create(ctx, doc)
	}
	return s.Update(ctx, doc)
}

func (s *syncStore) put(ctx context.Context, doc models.Document) (models.Document, error) {
	var saved models.Document
	err := s.queue.Exclusive(ctx, func(ctx context.Context) error {
		doc, err := s.keepLocalMark(ctx, doc)
		if err != nil {
			return err
		}
		if saved, err = s.entities.Save(ctx, doc); err != nil {
			return err
		}
		return s.queue.Enqueue(ctx, saved.ID(), s.collection, models.SyncStatePut)
	})
	if err != nil {
		s.logger.Err(err).Str("func", "syncStore.put").Str("collection", s.collection).Str("id", doc.ID()).Msg("error queueing document")
		return nil, err
	}
	return saved, nil
}

// keepLocalMark marks doc local when the stored version of it was never
// confirmed by the server, so that the next push still creates it.
func (s *syncStore) keepLocalMark(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc.ID() == "" || doc.IsLocal() {
		return doc, nil
	}
	stored, err := s.entities.FindByID(ctx, doc.ID())
	if errors.Is(err, errs.ErrNotFound) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if !stored.IsLocal() {
		return doc, nil
	}
	doc = doc.Clone()
	doc.MarkLocal()
	return doc, nil
}

func (s *syncStore) Remove(ctx context.Context, q *models.Query) (int, error) {
	docs, err := s.entities.Find(ctx, q)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, doc := range docs {
		n, err := s.remove(ctx, doc)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

func (s *syncStore) RemoveByID(ctx context.Context, id string) (int, error) {
	doc, err := s.entities.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return s.remove(ctx, doc)
}

// remove deletes doc locally. A document the server never saw only loses
// its pending PUT; any other gets a DELETE entry.
func (s *syncStore) remove(ctx context.Context, doc models.Document) (int, error) {
	id := doc.ID()
	var removed int
	err := s.queue.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		if removed, err = s.entities.RemoveByID(ctx, id); err != nil {
			return err
		}
		if doc.IsLocal() {
			return s.queue.Dequeue(ctx, s.collection, id)
		}
		return s.queue.Enqueue(ctx, id, s.collection, models.SyncStateDelete)
	})
	if err != nil {
		s.logger.Err(err).Str("func", "syncStore.remove").Str("collection", s.collection).Str("id", id).Msg("error updating sync queue")
		return 0, err
	}
	return removed, nil
}

func (s *syncStore) Clear(ctx context.Context, q *models.Query) (int, error) {
	if q == nil {
		count, err := s.entities.Count(ctx, nil)
		if err != nil {
			return 0, err
		}
		if err = s.entities.Clear(ctx); err != nil {
			return 0, err
		}
		if _, err = s.queue.Clear(ctx, s.collection, nil); err != nil {
			return 0, err
		}
		if _, err = s.queries.Clear(ctx); err != nil {
			return 0, err
		}
		return count, nil
	}

	docs, err := s.entities.Find(ctx, q.FilterOnly())
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]any, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID())
	}
	byID := models.NewQuery(map[string]any{models.IDField: map[string]any{"$in": ids}})

	removed, err := s.entities.Remove(ctx, byID)
	if err != nil {
		return 0, err
	}
	if _, err = s.queue.Clear(ctx, s.collection, byID); err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *syncStore) Push(ctx context.Context, q *models.Query) (models.PushResult, error) {
	return s.manager.Push(ctx, s.collection, q)
}

func (s *syncStore) Pull(ctx context.Context, q *models.Query, opts models.PullOptions) ([]models.Document, error) {
	return s.manager.Pull(ctx, s.collection, q, opts)
}

func (s *syncStore) Sync(ctx context.Context, q *models.Query, opts models.PullOptions) (models.SyncResult, error) {
	return s.manager.Sync(ctx, s.collection, q, opts)
}

func (s *syncStore) PendingSyncCount(ctx context.Context, q *models.Query) (int, error) {
	return s.manager.PendingCount(ctx, s.collection, q)
}

func (s *syncStore) PendingSyncEntries(ctx context.Context, q *models.Query) ([]models.SyncEntry, error) {
	return s.manager.PendingEntries(ctx, s.collection, q)
}

func (s *syncStore) ClearSync(ctx context.Context, q *models.Query) (int, error) {
	return s.manager.ClearSync(ctx, s.collection, q)
}
