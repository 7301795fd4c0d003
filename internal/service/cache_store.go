// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type cacheStore struct {
	*syncStore
	network adapter.NetworkStore
	maxAge  time.Duration
}

// NewCacheStore returns the read-through handle of collection under tag.
// A pulled query stays fresh for maxAge; a non-positive maxAge keeps it
// fresh until a forced refresh.
func NewCacheStore(registry *cache.Registry, manager SyncManager, network adapter.NetworkStore, collection, tag string, maxAge time.Duration, log *logger.Logger) (CacheStore, error) {
	local, err := newSyncStore(registry, manager, collection, tag, log)
	if err != nil {
		return nil, err
	}
	return &cacheStore{syncStore: local, network: network, maxAge: maxAge}, nil
}

func (s *cacheStore) Find(ctx context.Context, q *models.Query, opts models.FindOptions) <-chan FindResult {
	out := make(chan FindResult, 2)

	go func() {
		defer close(out)

		local, err := s.entities.Find(ctx, q)
		if err != nil {
			out <- FindResult{Source: SourceLocal, Err: err}
			return
		}
		out <- FindResult{Docs: local, Source: SourceLocal}

		if !opts.ForceRefresh {
			fresh, err := s.queries.IsFresh(ctx, q, s.maxAge)
			if err != nil {
				out <- FindResult{Source: SourceNetwork, Err: err}
				return
			}
			if fresh {
				return
			}
		}

		docs, err := s.manager.Pull(ctx, s.collection, q, opts.Pull)
		if errors.Is(err, errs.ErrNotFound) {
			docs, err = []models.Document{}, nil
		}
		out <- FindResult{Docs: docs, Source: SourceNetwork, Err: err}
	}()

	return out
}

func (s *cacheStore) FindByID(ctx context.Context, id string) (models.Document, error) {
	doc, err := s.network.FindByID(ctx, s.collection, id)
	switch {
	case err == nil:
		var local models.Document
		err = s.queue.Exclusive(ctx, func(ctx context.Context) error {
			pending, err := s.isPending(ctx, id)
			if err != nil {
				return err
			}
			if pending {
				local, err = s.entities.FindByID(ctx, id)
				return err
			}
			_, err = s.entities.Save(ctx, doc)
			return err
		})
		if err != nil {
			return nil, err
		}
		if local != nil {
			return local, nil
		}
		return doc, nil

	case errors.Is(err, errs.ErrNotFound):
		var local models.Document
		gerr := s.queue.Exclusive(ctx, func(ctx context.Context) error {
			pending, err := s.isPending(ctx, id)
			if err != nil {
				return err
			}
			if pending {
				local, err = s.entities.FindByID(ctx, id)
				return err
			}
			_, err = s.entities.RemoveByID(ctx, id)
			return err
		})
		if gerr != nil {
			return nil, gerr
		}
		if local != nil {
			return local, nil
		}
		return nil, err

	case errs.IsNetwork(err):
		s.logger.Debug().Err(err).Str("collection", s.collection).Str("id", id).Msg("network unavailable, reading local copy")
		return s.entities.FindByID(ctx, id)

	default:
		return nil, err
	}
}

func (s *cacheStore) isPending(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.queue.Entry(ctx, s.collection, id)
	return ok, err
}

func (s *cacheStore) Count(ctx context.Context, q *models.Query) (int, error) {
	count, err := s.network.Count(ctx, s.collection, q)
	if errs.IsNetwork(err) {
		return s.entities.Count(ctx, q)
	}
	return count, err
}

func (s *cacheStore) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	saved, err := s.syncStore.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.pushDocument(ctx, saved)
}

func (s *cacheStore) Update(ctx context.Context, doc models.Document) (models.Document, error) {
	saved, err := s.syncStore.Update(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.pushDocument(ctx, saved)
}

func (s *cacheStore) Save(ctx context.Context, doc models.Document) (models.Document, error) {
	if doc.ID() == "" {
		return s.Create(ctx, doc)
	}
	return s.Update(ctx, doc)
}

func (s *cacheStore) Remove(ctx context.Context, q *models.Query) (int, error) {
	docs, err := s.entities.Find(ctx, q)
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

	removed, err := s.syncStore.Remove(ctx, byID)
	if err != nil {
		return removed, err
	}
	return removed, s.pushIDs(ctx, byID)
}

func (s *cacheStore) RemoveByID(ctx context.Context, id string) (int, error) {
	removed, err := s.syncStore.RemoveByID(ctx, id)
	if err != nil || removed == 0 {
		return removed, err
	}
	return removed, s.pushIDs(ctx, models.NewQuery(map[string]any{models.IDField: id}))
}

// pushDocument sends the pending entry of doc and returns the server copy.
// On a failed push the local copy is returned with the push error; the
// entry stays queued.
func (s *cacheStore) pushDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	result, err := s.manager.Push(ctx, s.collection, models.NewQuery(map[string]any{models.IDField: doc.ID()}))
	if err != nil {
		return doc, err
	}
	if result.ErrorCount > 0 {
		return doc, result.Errors[0]
	}
	if len(result.Entities) > 0 {
		return result.Entities[0], nil
	}
	return doc, nil
}

func (s *cacheStore) pushIDs(ctx context.Context, q *models.Query) error {
	result, err := s.manager.Push(ctx, s.collection, q)
	if err != nil {
		return err
	}
	if result.ErrorCount > 0 {
		return result.Errors[0]
	}
	return nil
}
