// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/mock"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/models"
)

const testCollection = "books"

// testEnv — общий набор зависимостей для тестов менеджера и хранилищ
type testEnv struct {
	registry *cache.Registry
	network  *mock.MockNetworkStore
	manager  SyncManager
	store    SyncStore
}

func newTestEnv(t *testing.T, ctrl *gomock.Controller) *testEnv {
	t.Helper()
	registry := cache.NewRegistry(store.NewMemoryAdapter(), "kid", logger.Nop())
	network := mock.NewMockNetworkStore(ctrl)

	manager, err := NewSyncManager(registry, network, "", models.PullOptions{}, logger.Nop())
	require.NoError(t, err)

	syncStore, err := NewSyncStore(registry, manager, testCollection, "", logger.Nop())
	require.NoError(t, err)

	return &testEnv{registry: registry, network: network, manager: manager, store: syncStore}
}

func (e *testEnv) entities(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := e.registry.EntityCache(testCollection, "")
	require.NoError(t, err)
	return c
}

func (e *testEnv) queue(t *testing.T) *cache.SyncQueue {
	t.Helper()
	q, err := e.registry.SyncQueue("")
	require.NoError(t, err)
	return q
}

// seed кладёт документы в кэш в обход очереди синхронизации
func (e *testEnv) seed(t *testing.T, docs ...models.Document) {
	t.Helper()
	_, err := e.entities(t).SaveMany(context.Background(), docs)
	require.NoError(t, err)
}

func echoUpdate(_ context.Context, _ string, doc models.Document) (models.Document, error) {
	out := doc.Clone()
	out[models.MetadataField] = map[string]any{"lmt": "2026-10-18T10:00:00.000Z"}
	return out, nil
}

// ── Push ─────────────────────────────────────────────────────────────────────

func TestSyncManager_Push_EmptyQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	result, err := env.manager.Push(context.Background(), testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PushResult{Collection: testCollection}, result)
}

func TestSyncManager_Push_ReplaysInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := env.store.Update(ctx, models.Document{"_id": id})
		require.NoError(t, err)
	}

	var order []string
	record := func(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
		order = append(order, doc.ID())
		return echoUpdate(ctx, collection, doc)
	}
	gomock.InOrder(
		env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "a"}).DoAndReturn(record),
		env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "b"}).DoAndReturn(
			func(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
				// медленный ответ не должен менять порядок
				time.Sleep(20 * time.Millisecond)
				return record(ctx, collection, doc)
			}),
		env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "c"}).DoAndReturn(record),
	)

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Len(t, result.Entities, 3)

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)

	saved, err := env.store.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-18T10:00:00.000Z", saved.LastModified())
}

func TestSyncManager_Push_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := env.store.Update(ctx, models.Document{"_id": id})
		require.NoError(t, err)
	}

	offline := errs.New(errs.KindNetworkConnection, "no network connection")
	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "a"}).DoAndReturn(echoUpdate)
	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "b"}).Return(nil, offline)
	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "c"}).DoAndReturn(echoUpdate)

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "b", result.Errors[0].ID)
	assert.Equal(t, models.SyncStatePut, result.Errors[0].State)
	assert.ErrorIs(t, result.Errors[0], errs.ErrNetworkConnection)

	entries, err := env.manager.PendingEntries(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.SyncEntry{{ID: "b", Collection: testCollection, State: models.SyncStatePut}}, withoutVersions(entries))
}

func TestSyncManager_Push_DeleteNotFoundIsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "gone"})
	removed, err := env.store.RemoveByID(ctx, "gone")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	env.network.EXPECT().RemoveByID(ctx, testCollection, "gone").Return(0, errs.NotFound("entity not found"))

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Zero(t, result.ErrorCount)

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncManager_Push_DeleteFailureStaysQueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "x"})
	_, err := env.store.RemoveByID(ctx, "x")
	require.NoError(t, err)

	env.network.EXPECT().RemoveByID(ctx, testCollection, "x").Return(0, errs.New(errs.KindServer, "boom"))

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ErrorCount)

	entry, ok, err := env.queue(t).Entry(ctx, testCollection, "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.SyncStateDelete, entry.State)
}

func TestSyncManager_Push_MissingDocumentIsDequeued(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	require.NoError(t, env.queue(t).Enqueue(ctx, "ghost", testCollection, models.SyncStatePut))

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Empty(t, result.Entities)

	_, ok, err := env.queue(t).Entry(ctx, testCollection, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestSyncManager_OfflineCreateThenPush — сквозной сценарий: офлайн-создание и push.
func TestSyncManager_OfflineCreateThenPush(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	created, err := env.store.Create(ctx, models.Document{"name": "a"})
	require.NoError(t, err)
	localID := created.ID()
	assert.True(t, created.IsLocal())

	docs, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsLocal())

	entries, err := env.manager.PendingEntries(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.SyncEntry{{ID: localID, Collection: testCollection, State: models.SyncStatePut}}, withoutVersions(entries))

	env.network.EXPECT().Create(ctx, testCollection, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, body models.Document) (models.Document, error) {
			// локальный id и флаг local не уходят на сервер
			assert.Equal(t, models.Document{"name": "a"}, body)
			return models.Document{
				"_id":  "server1",
				"name": "a",
				"_kmd": map[string]any{"lmt": "2026-10-18T10:00:00.000Z"},
			}, nil
		})

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	docs, err = env.store.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "server1", docs[0].ID())
	assert.False(t, docs[0].IsLocal())

	_, err = env.store.FindByID(ctx, localID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	pending, err := env.manager.PendingCount(ctx, "", nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

// TestSyncManager_Push_UpdatedOfflineDocumentIsCreated — офлайн-документ,
// обновлённый без _kmd, всё равно уходит на сервер через create.
func TestSyncManager_Push_UpdatedOfflineDocumentIsCreated(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	created, err := env.store.Create(ctx, models.Document{"name": "a"})
	require.NoError(t, err)
	_, err = env.store.Update(ctx, models.Document{"_id": created.ID(), "name": "b"})
	require.NoError(t, err)

	env.network.EXPECT().Create(ctx, testCollection, models.Document{"name": "b"}).
		Return(models.Document{"_id": "server1", "name": "b"}, nil)

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	docs, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"server1"}, idsOf(docs))
}

// TestSyncManager_Push_WriteDuringUpdateStaysQueued — запись, сделанная пока
// запрос в полёте, не теряется и отправляется следующим push.
func TestSyncManager_Push_WriteDuringUpdateStaysQueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	_, err := env.store.Update(ctx, models.Document{"_id": "x", "v": float64(1)})
	require.NoError(t, err)

	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "x", "v": float64(1)}).DoAndReturn(
		func(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
			_, err := env.store.Update(ctx, models.Document{"_id": "x", "v": float64(2)})
			require.NoError(t, err)
			return echoUpdate(ctx, collection, doc)
		})

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	local, err := env.store.FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, float64(2), local["v"])

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "x", "v": float64(2)}).DoAndReturn(echoUpdate)

	result, err = env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	pending, err = env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncManager_Push_WriteDuringCreateMovesToServerID(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	created, err := env.store.Create(ctx, models.Document{"name": "a"})
	require.NoError(t, err)
	localID := created.ID()

	env.network.EXPECT().Create(ctx, testCollection, models.Document{"name": "a"}).DoAndReturn(
		func(ctx context.Context, _ string, _ models.Document) (models.Document, error) {
			_, err := env.store.Update(ctx, models.Document{"_id": localID, "name": "b"})
			require.NoError(t, err)
			return models.Document{"_id": "server1", "name": "a"}, nil
		})

	result, err := env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	_, err = env.store.FindByID(ctx, localID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	moved, err := env.store.FindByID(ctx, "server1")
	require.NoError(t, err)
	assert.Equal(t, "b", moved["name"])
	assert.False(t, moved.IsLocal())

	entries, err := env.manager.PendingEntries(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.SyncEntry{{ID: "server1", Collection: testCollection, State: models.SyncStatePut}}, withoutVersions(entries))

	// следующий push обновляет уже созданный документ
	env.network.EXPECT().Update(ctx, testCollection, gomock.Any()).DoAndReturn(
		func(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
			assert.Equal(t, "server1", doc.ID())
			assert.Equal(t, "b", doc["name"])
			return echoUpdate(ctx, collection, doc)
		})

	_, err = env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncManager_Push_RemoveDuringCreateDeletesServerCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	created, err := env.store.Create(ctx, models.Document{"name": "a"})
	require.NoError(t, err)
	localID := created.ID()

	env.network.EXPECT().Create(ctx, testCollection, gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ models.Document) (models.Document, error) {
			removed, err := env.store.RemoveByID(ctx, localID)
			require.NoError(t, err)
			require.Equal(t, 1, removed)
			return models.Document{"_id": "server1", "name": "a"}, nil
		})

	_, err = env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)

	count, err := env.store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	entries, err := env.manager.PendingEntries(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.SyncEntry{{ID: "server1", Collection: testCollection, State: models.SyncStateDelete}}, withoutVersions(entries))

	env.network.EXPECT().RemoveByID(ctx, testCollection, "server1").Return(1, nil)
	_, err = env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestSyncManager_Push_DeleteThenRecreateDuringFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "x"})
	_, err := env.store.RemoveByID(ctx, "x")
	require.NoError(t, err)

	env.network.EXPECT().RemoveByID(ctx, testCollection, "x").DoAndReturn(
		func(ctx context.Context, _, _ string) (int, error) {
			_, err := env.store.Update(ctx, models.Document{"_id": "x", "v": float64(2)})
			require.NoError(t, err)
			return 1, nil
		})

	_, err = env.manager.Push(ctx, testCollection, nil)
	require.NoError(t, err)

	entry, ok, err := env.queue(t).Entry(ctx, testCollection, "x")
	require.NoError(t, err)
	require.True(t, ok, "the new PUT must survive the replayed DELETE")
	assert.Equal(t, models.SyncStatePut, entry.State)
}

func TestSyncManager_Push_FilterByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := env.store.Update(ctx, models.Document{"_id": id})
		require.NoError(t, err)
	}

	env.network.EXPECT().Update(ctx, testCollection, models.Document{"_id": "b"}).DoAndReturn(echoUpdate)

	result, err := env.manager.Push(ctx, testCollection, models.NewQuery(map[string]any{"_id": "b"}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	pending, err := env.manager.PendingCount(ctx, testCollection, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestSyncManager_Push_StorageFault(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := mock.NewMockAdapter(ctrl)
	registry := cache.NewRegistry(adapter, "kid", logger.Nop())

	manager, err := NewSyncManager(registry, mock.NewMockNetworkStore(ctrl), "", models.PullOptions{}, logger.Nop())
	require.NoError(t, err)

	adapter.EXPECT().Find(gomock.Any(), "kid", cache.SyncCollectionName).Return(nil, errors.New("disk I/O error"))

	_, err = manager.Push(context.Background(), testCollection, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestNewSyncManager_InvalidTag(t *testing.T) {
	registry := cache.NewRegistry(store.NewMemoryAdapter(), "kid", logger.Nop())

	_, err := NewSyncManager(registry, nil, "bad tag!", models.PullOptions{}, logger.Nop())
	assert.Equal(t, errs.KindKinvey, errs.KindOf(err))
}

// ── Pull ─────────────────────────────────────────────────────────────────────

func TestSyncManager_Pull_ReconcilesAndPrunes(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t,
		models.Document{"_id": "1", "genre": "sf", "v": float64(1)},
		models.Document{"_id": "2", "genre": "sf"},
		models.Document{"_id": "3", "genre": "sf"},
		models.Document{"_id": "4", "genre": "drama"},
	)
	// документ 2 изменён локально и ждёт отправки
	_, err := env.store.Update(ctx, models.Document{"_id": "2", "genre": "sf", "mine": true})
	require.NoError(t, err)

	q := models.NewQuery(map[string]any{"genre": "sf"})
	env.network.EXPECT().Find(gomock.Any(), testCollection, q).Return([]models.Document{
		{"_id": "1", "genre": "sf", "v": float64(2)},
		{"_id": "2", "genre": "sf", "mine": false},
		{"_id": "5", "genre": "sf"},
	}, http.Header{"Date": []string{"Sun, 18 Oct 2026 10:00:00 GMT"}}, nil)

	docs, err := env.manager.Pull(ctx, testCollection, q, models.PullOptions{})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	local, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "4", "5"}, idsOf(local))

	one, err := env.store.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, float64(2), one["v"])

	two, err := env.store.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, true, two["mine"], "pending document must not be overwritten")

	qc, err := env.registry.QueryCache(testCollection, "")
	require.NoError(t, err)
	last, ok, err := qc.LastRequest(ctx, q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), last.UTC())
}

func TestSyncManager_Pull_WriteDuringFetchIsKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "1", "v": float64(1)})

	env.network.EXPECT().Find(gomock.Any(), testCollection, gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ *models.Query) ([]models.Document, http.Header, error) {
			_, err := env.store.Update(ctx, models.Document{"_id": "1", "v": float64(3)})
			require.NoError(t, err)
			return []models.Document{{"_id": "1", "v": float64(2)}}, http.Header{}, nil
		})

	docs, err := env.manager.Pull(ctx, testCollection, nil, models.PullOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, float64(3), docs[0]["v"], "pull returns the local copy of a pending document")

	local, err := env.store.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, float64(3), local["v"])
}

func TestSyncManager_Pull_PaginatedReturnsServerWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "a"}, models.Document{"_id": "b"})
	_, err := env.store.Update(ctx, models.Document{"_id": "b", "mine": true})
	require.NoError(t, err)

	q := &models.Query{Skip: 20, Limit: 2}
	env.network.EXPECT().Find(gomock.Any(), testCollection, q).
		Return([]models.Document{{"_id": "b"}, {"_id": "z"}}, http.Header{}, nil)

	docs, err := env.manager.Pull(ctx, testCollection, q, models.PullOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "z"}, idsOf(docs))
	assert.Equal(t, true, docs[0]["mine"])
}

func TestSyncManager_Pull_PaginatedDoesNotPrune(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "old"})

	q := &models.Query{Skip: 10, Limit: 5}
	env.network.EXPECT().Find(gomock.Any(), testCollection, q).Return([]models.Document{{"_id": "new"}}, http.Header{}, nil)

	_, err := env.manager.Pull(ctx, testCollection, q, models.PullOptions{})
	require.NoError(t, err)

	local, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "new"}, idsOf(local))

	qc, err := env.registry.QueryCache(testCollection, "")
	require.NoError(t, err)
	_, ok, err := qc.LastRequest(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok, "paginated pulls are never recorded")
}

func TestSyncManager_Pull_AutoPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "stale"})

	gomock.InOrder(
		env.network.EXPECT().Count(gomock.Any(), testCollection, (*models.Query)(nil)).Return(3, nil),
		env.network.EXPECT().Find(gomock.Any(), testCollection, &models.Query{Skip: 0, Limit: 2}).
			Return([]models.Document{{"_id": "1"}, {"_id": "2"}}, http.Header{}, nil),
		env.network.EXPECT().Find(gomock.Any(), testCollection, &models.Query{Skip: 2, Limit: 2}).
			Return([]models.Document{{"_id": "3"}}, http.Header{}, nil),
	)

	docs, err := env.manager.Pull(ctx, testCollection, nil, models.PullOptions{AutoPagination: true, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, idsOf(docs))

	local, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, idsOf(local), "a complete paginated pull prunes")
}

func TestSyncManager_Pull_DeltaSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "1", "v": float64(1)}, models.Document{"_id": "2"})

	qc, err := env.registry.QueryCache(testCollection, "")
	require.NoError(t, err)
	_, err = qc.SaveQuery(ctx, nil, http.Header{"Date": []string{"Wed, 21 Oct 2026 07:28:00 GMT"}})
	require.NoError(t, err)

	env.network.EXPECT().DeltaSet(gomock.Any(), testCollection, (*models.Query)(nil), "2026-10-21T07:28:00.000Z").
		Return(models.DeltaSet{
			Changed: []models.Document{{"_id": "1", "v": float64(2)}, {"_id": "3"}},
			Deleted: []models.Document{{"_id": "2"}},
		}, http.Header{"Date": []string{"Wed, 21 Oct 2026 08:00:00 GMT"}}, nil)

	docs, err := env.manager.Pull(ctx, testCollection, nil, models.PullOptions{UseDeltaSet: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "3"}, idsOf(docs))

	last, ok, err := qc.LastRequest(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, last.UTC().Hour())
}

func TestSyncManager_Pull_DeltaSetFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	qc, err := env.registry.QueryCache(testCollection, "")
	require.NoError(t, err)
	_, err = qc.SaveQuery(ctx, nil, nil)
	require.NoError(t, err)

	gomock.InOrder(
		env.network.EXPECT().DeltaSet(gomock.Any(), testCollection, gomock.Any(), gomock.Any()).
			Return(models.DeltaSet{}, nil, errs.New(errs.KindMissingConfiguration, "delta set is disabled")),
		env.network.EXPECT().Find(gomock.Any(), testCollection, gomock.Any()).
			Return([]models.Document{{"_id": "1"}}, http.Header{}, nil),
	)

	docs, err := env.manager.Pull(ctx, testCollection, nil, models.PullOptions{UseDeltaSet: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, idsOf(docs))
}

func TestSyncManager_Pull_NetworkErrorKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	env.seed(t, models.Document{"_id": "1"})
	env.network.EXPECT().Find(gomock.Any(), testCollection, gomock.Any()).
		Return(nil, nil, errs.New(errs.KindTimeout, "request timed out"))

	_, err := env.manager.Pull(ctx, testCollection, nil, models.PullOptions{Timeout: time.Second})
	assert.ErrorIs(t, err, errs.ErrTimeout)

	count, err := env.store.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// ── Sync ─────────────────────────────────────────────────────────────────────

func TestSyncManager_Sync_PushesBeforePull(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	_, err := env.store.Update(ctx, models.Document{"_id": "a", "v": float64(1)})
	require.NoError(t, err)
	_, err = env.store.Update(ctx, models.Document{"_id": "b"})
	require.NoError(t, err)

	gomock.InOrder(
		env.network.EXPECT().Update(ctx, testCollection, gomock.Any()).DoAndReturn(echoUpdate),
		env.network.EXPECT().Update(ctx, testCollection, gomock.Any()).Return(nil, errs.New(errs.KindServer, "boom")),
		env.network.EXPECT().Find(gomock.Any(), testCollection, gomock.Any()).
			Return([]models.Document{{"_id": "a", "v": float64(1)}}, http.Header{}, nil),
	)

	result, err := env.manager.Sync(ctx, testCollection, nil, models.PullOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Push.SuccessCount)
	assert.Equal(t, 1, result.Push.ErrorCount)

	// b ждёт отправки, поэтому pull его не удаляет и возвращает локальную копию
	assert.ElementsMatch(t, []string{"a", "b"}, idsOf(result.Pull))
	local, err := env.store.Find(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, idsOf(local))
}

func TestSyncManager_ClearSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := env.store.Update(ctx, models.Document{"_id": id})
		require.NoError(t, err)
	}

	filter := models.NewQuery(map[string]any{"_id": map[string]any{"$in": []any{"a", "c"}}})
	count, err := env.manager.PendingCount(ctx, testCollection, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	cleared, err := env.manager.ClearSync(ctx, testCollection, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	entries, err := env.manager.PendingEntries(ctx, testCollection, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}

func idsOf(docs []models.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID())
	}
	return ids
}
