// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

// QueryCacheCollectionName is the reserved collection holding query
// freshness records.
const QueryCacheCollectionName = "_QueryCache"

// lastRequestLayout is the ISO-8601 form of lastRequest.
const lastRequestLayout = "2006-01-02T15:04:05.000Z07:00"

// QueryCache tracks, per query signature of one collection, when the
// server last answered that query.
type QueryCache struct {
	cache      *Cache
	collection string
	ids        *utils.UUIDGenerator
	now        func() time.Time
}

// NewQueryCache scopes the shared query cache c to collection.
func NewQueryCache(c *Cache, collection string) *QueryCache {
	return &QueryCache{
		cache:      c,
		collection: collection,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
	}
}

// SerializeQuery returns the signature of q. The empty string stands for
// "all documents". ok is false for paginated queries, which are never
// tracked.
func SerializeQuery(q *models.Query) (key string, ok bool) {
	if q == nil {
		return "", true
	}
	if q.IsPaginated() {
		return "", false
	}
	if len(q.Filter) == 0 {
		return "", true
	}
	// encoding/json sorts map keys, so equal filters give equal keys
	data, err := json.Marshal(q.Filter)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// FindByKey returns the record of key, or nil when there is none.
func (qc *QueryCache) FindByKey(ctx context.Context, key string) (*models.QueryCacheEntry, error) {
	docs, err := qc.cache.Find(ctx, models.NewQuery(map[string]any{
		"collectionName": qc.collection,
		"query":          key,
	}))
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	entry := models.QueryCacheEntryFromDocument(docs[0])
	return &entry, nil
}

// SaveQuery records that the server answered q at the time of the
// response's Date header. Paginated queries are ignored and yield nil.
func (qc *QueryCache) SaveQuery(ctx context.Context, q *models.Query, headers http.Header) (*models.QueryCacheEntry, error) {
	key, ok := SerializeQuery(q)
	if !ok {
		return nil, nil
	}

	entry, err := qc.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &models.QueryCacheEntry{
			ID:         qc.ids.ObjectID(),
			Collection: qc.collection,
			Query:      key,
		}
	}
	entry.LastRequest = qc.responseTime(headers).UTC().Format(lastRequestLayout)

	if _, err = qc.cache.Save(ctx, entry.ToDocument()); err != nil {
		return nil, err
	}
	return entry, nil
}

// LastRequest returns when q was last answered by the server. ok is false
// when q was never recorded or cannot be.
func (qc *QueryCache) LastRequest(ctx context.Context, q *models.Query) (t time.Time, ok bool, err error) {
	key, cacheable := SerializeQuery(q)
	if !cacheable {
		return time.Time{}, false, nil
	}
	entry, err := qc.FindByKey(ctx, key)
	if err != nil || entry == nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339Nano, entry.LastRequest)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// IsFresh reports whether q was answered by the server within maxAge. A
// non-positive maxAge never expires a recorded query.
func (qc *QueryCache) IsFresh(ctx context.Context, q *models.Query, maxAge time.Duration) (bool, error) {
	last, ok, err := qc.LastRequest(ctx, q)
	if err != nil || !ok {
		return false, err
	}
	if maxAge <= 0 {
		return true, nil
	}
	return qc.now().Sub(last) <= maxAge, nil
}

// Clear drops every record of the collection.
func (qc *QueryCache) Clear(ctx context.Context) (int, error) {
	return qc.cache.Remove(ctx, models.NewQuery(map[string]any{"collectionName": qc.collection}))
}

func (qc *QueryCache) responseTime(headers http.Header) time.Time {
	if headers != nil {
		if date := headers.Get("Date"); date != "" {
			if t, err := http.ParseTime(date); err == nil {
				return t
			}
		}
	}
	return qc.now()
}
