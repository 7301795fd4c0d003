// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// Cache is the local document store of one namespaced collection.
type Cache struct {
	dbName     string
	collection string
	adapter    store.Adapter
	queue      *taskQueue
	ids        *utils.UUIDGenerator
	logger     *logger.Logger
}

// New returns a cache over adapter for collection inside dbName. Callers
// normally obtain caches from a [Registry] so that one collection has one
// task queue.
func New(adapter store.Adapter, dbName, collection string, log *logger.Logger) *Cache {
	return &Cache{
		dbName:     dbName,
		collection: collection,
		adapter:    adapter,
		queue:      newTaskQueue(),
		ids:        utils.NewUUIDGenerator(),
		logger:     log,
	}
}

// Collection returns the namespaced collection key.
func (c *Cache) Collection() string {
	return c.collection
}

// Find returns the stored documents, or those selected by q.
func (c *Cache) Find(ctx context.Context, q *models.Query) ([]models.Document, error) {
	var docs []models.Document
	err := c.queue.run(ctx, func(ctx context.Context) error {
		var err error
		docs, err = c.find(ctx, q)
		return err
	})
	return docs, err
}

// FindByID fails with an errs.KindNotFound error when id is unknown.
func (c *Cache) FindByID(ctx context.Context, id string) (models.Document, error) {
	var doc models.Document
	err := c.queue.run(ctx, func(ctx context.Context) error {
		var err error
		doc, err = c.adapter.FindByID(ctx, c.dbName, c.collection, id)
		return err
	})
	return doc, err
}

// Count returns len(Find(q)). Without a query it asks the adapter directly.
func (c *Cache) Count(ctx context.Context, q *models.Query) (int, error) {
	var count int
	err := c.queue.run(ctx, func(ctx context.Context) error {
		if q == nil {
			var err error
			count, err = c.adapter.Count(ctx, c.dbName, c.collection)
			return err
		}
		docs, err := c.find(ctx, q)
		count = len(docs)
		return err
	})
	return count, err
}

// Save upserts doc. A document without "_id" gets a generated id and is
// marked local.
func (c *Cache) Save(ctx context.Context, doc models.Document) (models.Document, error) {
	saved, err := c.SaveMany(ctx, []models.Document{doc})
	if err != nil {
		return nil, err
	}
	return saved[0], nil
}

// SaveMany upserts docs in one adapter call. Stored documents with the same
// id are replaced, not merged.
func (c *Cache) SaveMany(ctx context.Context, docs []models.Document) ([]models.Document, error) {
	prepared := make([]models.Document, len(docs))
	for i, doc := range docs {
		doc = doc.Clone()
		if doc == nil {
			doc = models.Document{}
		}
		if doc.ID() == "" {
			doc.SetID(c.ids.ObjectID())
			doc.MarkLocal()
		}
		prepared[i] = doc
	}

	err := c.queue.run(ctx, func(ctx context.Context) error {
		_, err := c.adapter.Save(ctx, c.dbName, c.collection, prepared)
		return err
	})
	if err != nil {
		c.logger.Err(err).Str("func", "Cache.SaveMany").Str("collection", c.collection).Msg("error saving documents")
		return nil, err
	}
	return prepared, nil
}

// Remove deletes the documents selected by q and returns how many went
// away. A nil query clears the collection.
func (c *Cache) Remove(ctx context.Context, q *models.Query) (int, error) {
	var removed int
	err := c.queue.run(ctx, func(ctx context.Context) error {
		if q == nil {
			count, err := c.adapter.Count(ctx, c.dbName, c.collection)
			if err != nil {
				return err
			}
			if err = c.adapter.Clear(ctx, c.dbName, c.collection); err != nil {
				return err
			}
			removed = count
			return nil
		}

		docs, err := c.find(ctx, q)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			n, err := c.adapter.RemoveByID(ctx, c.dbName, c.collection, doc.ID())
			if err != nil {
				return err
			}
			removed += n
		}
		return nil
	})
	return removed, err
}

// RemoveByID returns 1 when the document existed and 0 otherwise.
func (c *Cache) RemoveByID(ctx context.Context, id string) (int, error) {
	var removed int
	err := c.queue.run(ctx, func(ctx context.Context) error {
		var err error
		removed, err = c.adapter.RemoveByID(ctx, c.dbName, c.collection, id)
		return err
	})
	return removed, err
}

// Clear empties the collection.
func (c *Cache) Clear(ctx context.Context) error {
	return c.queue.run(ctx, func(ctx context.Context) error {
		return c.adapter.Clear(ctx, c.dbName, c.collection)
	})
}

func (c *Cache) find(ctx context.Context, q *models.Query) ([]models.Document, error) {
	docs, err := c.adapter.Find(ctx, c.dbName, c.collection)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", c.collection, err)
	}
	return query.Process(q, docs)
}
