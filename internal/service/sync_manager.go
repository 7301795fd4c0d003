// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// DefaultPageSize bounds one auto-pagination page.
const DefaultPageSize = 10000

// deltaSinceLayout is the ISO-8601 form the backend expects for "since".
const deltaSinceLayout = "2006-01-02T15:04:05.000Z07:00"

type syncManager struct {
	registry *cache.Registry
	network  adapter.NetworkStore
	tag      string
	defaults models.PullOptions
	logger   *logger.Logger

	// one push at a time per tag
	pushMu sync.Mutex
}

// replayOutcome is the result of replaying one entry. failure is set when
// the network rejected the entry; the entry then stays queued.
type replayOutcome struct {
	doc     models.Document
	failure error
}

// NewSyncManager returns the sync engine of tag. defaults fill the pull
// options a caller leaves unset.
func NewSyncManager(registry *cache.Registry, network adapter.NetworkStore, tag string, defaults models.PullOptions, log *logger.Logger) (SyncManager, error) {
	if _, err := cache.Key(cache.SyncCollectionName, tag); err != nil {
		return nil, err
	}
	if defaults.PageSize <= 0 {
		defaults.PageSize = DefaultPageSize
	}

	return &syncManager{
		registry: registry,
		network:  network,
		tag:      tag,
		defaults: defaults,
		logger:   log,
	}, nil
}

func (m *syncManager) caches(collection string) (*cache.Cache, *cache.SyncQueue, error) {
	entities, err := m.registry.EntityCache(collection, m.tag)
	if err != nil {
		return nil, nil, err
	}
	queue, err := m.registry.SyncQueue(m.tag)
	if err != nil {
		return nil, nil, err
	}
	return entities, queue, nil
}

func (m *syncManager) Push(ctx context.Context, collection string, q *models.Query) (models.PushResult, error) {
	result := models.PushResult{Collection: collection}

	entities, queue, err := m.caches(collection)
	if err != nil {
		return result, err
	}

	m.pushMu.Lock()
	defer m.pushMu.Unlock()

	entries, err := queue.Entries(ctx, collection, q)
	if err != nil {
		m.logger.Err(err).Str("func", "syncManager.Push").Str("collection", collection).Msg("error reading sync queue")
		return result, err
	}

	for _, entry := range entries {
		outcome, err := m.replay(ctx, entities, queue, collection, entry)
		if err != nil {
			m.logger.Err(err).Str("func", "syncManager.Push").
				Str("collection", collection).
				Str("id", entry.ID).
				Msg("storage fault while replaying sync entry")
			return result, err
		}

		if outcome.failure != nil {
			m.logger.Warn().Err(outcome.failure).
				Str("collection", collection).
				Str("id", entry.ID).
				Str("state", string(entry.State)).
				Msg("sync entry was not replayed")
			result.ErrorCount++
			result.Errors = append(result.Errors, models.PushError{ID: entry.ID, State: entry.State, Err: outcome.failure})
			continue
		}

		result.SuccessCount++
		if outcome.doc != nil {
			result.Entities = append(result.Entities, outcome.doc)
		}
	}

	if len(entries) > 0 {
		m.logger.Info().
			Str("collection", collection).
			Int("success", result.SuccessCount).
			Int("errors", result.ErrorCount).
			Msg("push finished")
	}
	return result, nil
}

func (m *syncManager) replay(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, collection string, entry models.SyncEntry) (replayOutcome, error) {
	switch entry.State {
	case models.SyncStatePut:
		return m.replayPut(ctx, entities, queue, collection, entry)
	case models.SyncStateDelete:
		return m.replayDelete(ctx, queue, collection, entry)
	default:
		return replayOutcome{failure: errs.Newf(errs.KindKinvey, "unknown sync state %q", entry.State)}, nil
	}
}

func (m *syncManager) replayPut(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, collection string, entry models.SyncEntry) (replayOutcome, error) {
	doc, err := entities.FindByID(ctx, entry.ID)
	if errors.Is(err, errs.ErrNotFound) {
		// the document was removed locally after the entry was queued
		_, err = queue.DequeueIfCurrent(ctx, entry)
		return replayOutcome{}, err
	}
	if err != nil {
		return replayOutcome{}, err
	}

	var saved models.Document
	if doc.IsLocal() {
		body := doc.Clone()
		delete(body, models.IDField)
		body.UnmarkLocal()
		saved, err = m.network.Create(ctx, collection, body)
	} else {
		saved, err = m.network.Update(ctx, collection, doc)
	}
	if err != nil {
		return replayOutcome{failure: err}, nil
	}

	if saved == nil {
		saved = doc.Clone()
	}
	if saved.ID() == "" {
		saved.SetID(entry.ID)
	}
	saved.UnmarkLocal()

	err = queue.Exclusive(ctx, func(ctx context.Context) error {
		return m.applyPut(ctx, entities, queue, collection, entry, saved)
	})
	if err != nil {
		return replayOutcome{}, err
	}
	return replayOutcome{doc: saved}, nil
}

// applyPut stores the server copy of a replayed PUT. When the document was
// written or removed locally while the request was in flight, the local
// state wins: only the server id is adopted and the newer change stays
// queued.
func (m *syncManager) applyPut(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, collection string, entry models.SyncEntry, saved models.Document) error {
	current, pending, err := queue.Entry(ctx, collection, entry.ID)
	if err != nil {
		return err
	}
	moved := saved.ID() != entry.ID

	if pending && current.Version != entry.Version {
		m.logger.Debug().Str("collection", collection).Str("id", entry.ID).Msg("document changed during push, keeping local version")
		if !moved {
			return nil
		}
		if err = m.moveLocal(ctx, entities, entry.ID, saved.ID()); err != nil {
			return err
		}
		if err = queue.Dequeue(ctx, collection, entry.ID); err != nil {
			return err
		}
		return queue.Enqueue(ctx, saved.ID(), collection, current.State)
	}

	if !pending {
		_, err = entities.FindByID(ctx, entry.ID)
		if errors.Is(err, errs.ErrNotFound) {
			if moved {
				// created on the server after the app removed it
				return queue.Enqueue(ctx, saved.ID(), collection, models.SyncStateDelete)
			}
			return nil
		}
		if err != nil {
			return err
		}
	}

	if _, err = entities.Save(ctx, saved); err != nil {
		return err
	}
	if moved {
		if _, err = entities.RemoveByID(ctx, entry.ID); err != nil {
			return err
		}
	}
	if !pending {
		return nil
	}
	return queue.Dequeue(ctx, collection, entry.ID)
}

// moveLocal re-keys the local copy of a document the server just created
// under the id it assigned.
func (m *syncManager) moveLocal(ctx context.Context, entities *cache.Cache, from, to string) error {
	local, err := entities.FindByID(ctx, from)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	local = local.Clone()
	local.SetID(to)
	local.UnmarkLocal()
	if _, err = entities.Save(ctx, local); err != nil {
		return err
	}
	_, err = entities.RemoveByID(ctx, from)
	return err
}

func (m *syncManager) replayDelete(ctx context.Context, queue *cache.SyncQueue, collection string, entry models.SyncEntry) (replayOutcome, error) {
	if _, err := m.network.RemoveByID(ctx, collection, entry.ID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return replayOutcome{failure: err}, nil
	}
	_, err := queue.DequeueIfCurrent(ctx, entry)
	return replayOutcome{}, err
}

func (m *syncManager) pullOptions(opts models.PullOptions) models.PullOptions {
	if opts.PageSize <= 0 {
		opts.PageSize = m.defaults.PageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = m.defaults.Timeout
	}
	opts.AutoPagination = opts.AutoPagination || m.defaults.AutoPagination
	opts.UseDeltaSet = opts.UseDeltaSet || m.defaults.UseDeltaSet
	return opts
}

func (m *syncManager) Pull(ctx context.Context, collection string, q *models.Query, opts models.PullOptions) ([]models.Document, error) {
	entities, queue, err := m.caches(collection)
	if err != nil {
		return nil, err
	}
	queryCache, err := m.registry.QueryCache(collection, m.tag)
	if err != nil {
		return nil, err
	}

	opts = m.pullOptions(opts)
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if opts.UseDeltaSet {
		docs, ok, err := m.pullDelta(ctx, entities, queue, queryCache, collection, q)
		if err != nil {
			return nil, err
		}
		if ok {
			return docs, nil
		}
	}

	docs, headers, complete, err := m.fetch(ctx, collection, q, opts)
	if err != nil {
		m.logger.Warn().Err(err).Str("collection", collection).Msg("pull failed")
		return nil, err
	}

	err = queue.Exclusive(ctx, func(ctx context.Context) error {
		return m.reconcile(ctx, entities, queue, collection, q, docs, complete)
	})
	if err != nil {
		m.logger.Err(err).Str("func", "syncManager.Pull").Str("collection", collection).Msg("error reconciling pulled documents")
		return nil, err
	}
	if complete {
		if _, err = queryCache.SaveQuery(ctx, q, headers); err != nil {
			return nil, err
		}
	}

	m.logger.Info().Str("collection", collection).Int("count", len(docs)).Msg("pull finished")
	return m.localView(ctx, entities, q, docs)
}

// localView returns the selection of q as the entity cache holds it after
// a pull. For a paginated q the window is the one the server returned.
func (m *syncManager) localView(ctx context.Context, entities *cache.Cache, q *models.Query, pulled []models.Document) ([]models.Document, error) {
	if !q.IsPaginated() {
		return entities.Find(ctx, q)
	}

	docs := make([]models.Document, 0, len(pulled))
	for _, doc := range pulled {
		local, err := entities.FindByID(ctx, doc.ID())
		if errors.Is(err, errs.ErrNotFound) {
			// removed locally, the delete is still pending
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, local)
	}
	return docs, nil
}

// fetch reports complete when docs are the whole selection of q, which is
// what allows pruning.
func (m *syncManager) fetch(ctx context.Context, collection string, q *models.Query, opts models.PullOptions) ([]models.Document, http.Header, bool, error) {
	if !opts.AutoPagination || q.IsPaginated() {
		docs, headers, err := m.network.Find(ctx, collection, q)
		if err != nil {
			return nil, nil, false, err
		}
		return docs, headers, !q.IsPaginated(), nil
	}

	total, err := m.network.Count(ctx, collection, q)
	if err != nil {
		return nil, nil, false, err
	}

	docs := make([]models.Document, 0, total)
	var headers http.Header
	for skip := 0; skip < total; skip += opts.PageSize {
		page, pageHeaders, err := m.network.Find(ctx, collection, q.WithPage(skip, opts.PageSize))
		if err != nil {
			return nil, nil, false, err
		}
		// the first page is the oldest answer, so its Date is the safe one
		if headers == nil {
			headers = pageHeaders
		}
		docs = append(docs, page...)
		if len(page) == 0 {
			break
		}
	}
	return docs, headers, true, nil
}

// reconcile runs in the queue's exclusive slot, so pending ids cannot change
// underneath it.
func (m *syncManager) reconcile(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, collection string, q *models.Query, docs []models.Document, complete bool) error {
	pending, err := queue.PendingIDs(ctx, collection)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(docs))
	upserts := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := pending[id]; ok {
			continue
		}
		upserts = append(upserts, doc)
	}
	if len(upserts) > 0 {
		if _, err = entities.SaveMany(ctx, upserts); err != nil {
			return err
		}
	}

	if !complete {
		return nil
	}

	local, err := entities.Find(ctx, q.FilterOnly())
	if err != nil {
		return err
	}
	for _, doc := range local {
		id := doc.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok || doc.IsLocal() {
			continue
		}
		if _, err = entities.RemoveByID(ctx, id); err != nil {
			return err
		}
		m.logger.Debug().Str("collection", collection).Str("id", id).Msg("pruned document deleted remotely")
	}
	return nil
}

// pullDelta applies the changes since the last pull of q. ok is false when
// a full pull is needed instead.
func (m *syncManager) pullDelta(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, queryCache *cache.QueryCache, collection string, q *models.Query) (docs []models.Document, ok bool, err error) {
	last, recorded, err := queryCache.LastRequest(ctx, q)
	if err != nil || !recorded {
		return nil, false, err
	}

	delta, headers, err := m.network.DeltaSet(ctx, collection, q, last.UTC().Format(deltaSinceLayout))
	if errors.Is(err, errs.ErrMissingConfiguration) || errors.Is(err, errs.ErrParameterValueOutOfRange) {
		m.logger.Info().Str("collection", collection).Msg("delta set unavailable, pulling in full")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err = queue.Exclusive(ctx, func(ctx context.Context) error {
		return m.applyDelta(ctx, entities, queue, collection, delta)
	}); err != nil {
		return nil, false, err
	}

	if _, err = queryCache.SaveQuery(ctx, q, headers); err != nil {
		return nil, false, err
	}

	m.logger.Info().
		Str("collection", collection).
		Int("changed", len(delta.Changed)).
		Int("deleted", len(delta.Deleted)).
		Msg("delta pull finished")

	docs, err = m.localView(ctx, entities, q, nil)
	return docs, err == nil, err
}

func (m *syncManager) applyDelta(ctx context.Context, entities *cache.Cache, queue *cache.SyncQueue, collection string, delta models.DeltaSet) error {
	pending, err := queue.PendingIDs(ctx, collection)
	if err != nil {
		return err
	}

	changed := make([]models.Document, 0, len(delta.Changed))
	for _, doc := range delta.Changed {
		if _, isPending := pending[doc.ID()]; doc.ID() != "" && !isPending {
			changed = append(changed, doc)
		}
	}
	if len(changed) > 0 {
		if _, err = entities.SaveMany(ctx, changed); err != nil {
			return err
		}
	}
	for _, doc := range delta.Deleted {
		if _, isPending := pending[doc.ID()]; doc.ID() == "" || isPending {
			continue
		}
		if _, err = entities.RemoveByID(ctx, doc.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (m *syncManager) Sync(ctx context.Context, collection string, q *models.Query, opts models.PullOptions) (models.SyncResult, error) {
	push, err := m.Push(ctx, collection, nil)
	if err != nil {
		return models.SyncResult{Push: push}, err
	}

	pulled, err := m.Pull(ctx, collection, q, opts)
	if err != nil {
		return models.SyncResult{Push: push}, err
	}
	return models.SyncResult{Push: push, Pull: pulled}, nil
}

func (m *syncManager) PendingCount(ctx context.Context, collection string, q *models.Query) (int, error) {
	queue, err := m.registry.SyncQueue(m.tag)
	if err != nil {
		return 0, err
	}
	if q == nil {
		return queue.Count(ctx, collection)
	}
	entries, err := queue.Entries(ctx, collection, q)
	return len(entries), err
}

func (m *syncManager) PendingEntries(ctx context.Context, collection string, q *models.Query) ([]models.SyncEntry, error) {
	queue, err := m.registry.SyncQueue(m.tag)
	if err != nil {
		return nil, err
	}
	return queue.Entries(ctx, collection, q)
}

func (m *syncManager) ClearSync(ctx context.Context, collection string, q *models.Query) (int, error) {
	queue, err := m.registry.SyncQueue(m.tag)
	if err != nil {
		return 0, err
	}
	return queue.Clear(ctx, collection, q)
}
