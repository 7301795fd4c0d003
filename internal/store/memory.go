// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/models"
)

type memoryCollection struct {
	order []string
	docs  map[string]models.Document
}

type memoryAdapter struct {
	mu  sync.RWMutex
	dbs map[string]map[string]*memoryCollection
}

// NewMemoryAdapter returns an [Adapter] that keeps everything in process
// memory. Documents are deep-copied on the way in and out.
func NewMemoryAdapter() Adapter {
	return &memoryAdapter{dbs: make(map[string]map[string]*memoryCollection)}
}

func (m *memoryAdapter) collection(dbName, collection string, create bool) *memoryCollection {
	db, ok := m.dbs[dbName]
	if !ok {
		if !create {
			return nil
		}
		db = make(map[string]*memoryCollection)
		m.dbs[dbName] = db
	}
	c, ok := db[collection]
	if !ok && create {
		c = &memoryCollection{docs: make(map[string]models.Document)}
		db[collection] = c
	}
	return c
}

func (m *memoryAdapter) Find(_ context.Context, dbName, collection string) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(dbName, collection, false)
	if c == nil {
		return []models.Document{}, nil
	}
	out := make([]models.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id].Clone())
	}
	return out, nil
}

func (m *memoryAdapter) Count(_ context.Context, dbName, collection string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(dbName, collection, false)
	if c == nil {
		return 0, nil
	}
	return len(c.order), nil
}

func (m *memoryAdapter) FindByID(_ context.Context, dbName, collection, id string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(dbName, collection, false)
	if c != nil {
		if doc, ok := c.docs[id]; ok {
			return doc.Clone(), nil
		}
	}
	return nil, errs.NotFound(fmt.Sprintf("no document with _id %q in %s", id, collection))
}

func (m *memoryAdapter) Save(_ context.Context, dbName, collection string, docs []models.Document) ([]models.Document, error) {
	for _, doc := range docs {
		if doc.ID() == "" {
			return nil, ErrMissingID
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(dbName, collection, true)
	for _, doc := range docs {
		id := doc.ID()
		if _, exists := c.docs[id]; !exists {
			c.order = append(c.order, id)
		}
		c.docs[id] = doc.Clone()
	}
	return docs, nil
}

func (m *memoryAdapter) RemoveByID(_ context.Context, dbName, collection, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(dbName, collection, false)
	if c == nil {
		return 0, nil
	}
	if _, ok := c.docs[id]; !ok {
		return 0, nil
	}
	delete(c.docs, id)
	for i, stored := range c.order {
		if stored == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (m *memoryAdapter) Clear(_ context.Context, dbName, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[dbName]; ok {
		delete(db, collection)
	}
	return nil
}

func (m *memoryAdapter) ClearAll(_ context.Context, dbName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.dbs, dbName)
	return nil
}

func (m *memoryAdapter) Close() error {
	return nil
}
