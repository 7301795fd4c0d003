// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"
	"regexp"
	"sync"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
)

var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// Registry hands out one cache instance per namespaced collection of an
// app. It is created by the client and shared by every store of that
// client.
type Registry struct {
	adapter store.Adapter
	dbName  string
	logger  *logger.Logger

	mu     sync.Mutex
	caches map[string]*Cache
	queues map[string]*SyncQueue
}

// NewRegistry returns an empty registry for the app dbName.
func NewRegistry(adapter store.Adapter, dbName string, log *logger.Logger) *Registry {
	return &Registry{
		adapter: adapter,
		dbName:  dbName,
		logger:  log,
		caches:  make(map[string]*Cache),
		queues:  make(map[string]*SyncQueue),
	}
}

// Key builds the namespaced collection key "<name>[.<tag>]".
func Key(name, tag string) (string, error) {
	if name == "" {
		return "", errs.New(errs.KindKinvey, "a collection name is required")
	}
	if tag == "" {
		return name, nil
	}
	if !tagPattern.MatchString(tag) {
		return "", errs.Newf(errs.KindKinvey, "invalid tag %q: only letters, digits and dashes are allowed", tag)
	}
	return name + "." + tag, nil
}

// EntityCache returns the document cache of collection under tag.
func (r *Registry) EntityCache(collection, tag string) (*Cache, error) {
	if collection == SyncCollectionName || collection == QueryCacheCollectionName {
		return nil, errs.Newf(errs.KindKinvey, "%s is a reserved collection name", collection)
	}
	key, err := Key(collection, tag)
	if err != nil {
		return nil, err
	}
	return r.get(key), nil
}

// SyncQueue returns the pending-mutation queue of tag. Every caller of a
// tag gets the same queue.
func (r *Registry) SyncQueue(tag string) (*SyncQueue, error) {
	key, err := Key(SyncCollectionName, tag)
	if err != nil {
		return nil, err
	}
	c := r.get(key)

	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[key]
	if !ok {
		q = NewSyncQueue(c)
		r.queues[key] = q
	}
	return q, nil
}

// QueryCache returns the freshness records of collection under tag. All
// collections of a tag share one underlying cache.
func (r *Registry) QueryCache(collection, tag string) (*QueryCache, error) {
	key, err := Key(QueryCacheCollectionName, tag)
	if err != nil {
		return nil, err
	}
	collectionKey, err := Key(collection, tag)
	if err != nil {
		return nil, err
	}
	return NewQueryCache(r.get(key), collectionKey), nil
}

// ClearAll wipes every collection of the app. Cache instances stay valid
// and keep their queues.
func (r *Registry) ClearAll(ctx context.Context) error {
	if err := r.adapter.ClearAll(ctx, r.dbName); err != nil {
		r.logger.Err(err).Str("func", "Registry.ClearAll").Msg("error clearing local storage")
		return err
	}
	return nil
}

func (r *Registry) get(key string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caches[key]
	if !ok {
		c = New(r.adapter, r.dbName, key, r.logger.GetChildLogger())
		r.caches[key] = c
	}
	return c
}
