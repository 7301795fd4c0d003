// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/models"
)

func TestMemoryAdapter_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()

	_, err := a.Save(ctx, "app", "books", []models.Document{
		{"_id": "1", "title": "Dune"},
		{"_id": "2", "title": "Emma"},
	})
	require.NoError(t, err)

	docs, err := a.Find(ctx, "app", "books")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0].ID())
	assert.Equal(t, "2", docs[1].ID())

	count, err := a.Count(ctx, "app", "books")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// TestMemoryAdapter_UpsertKeepsPosition проверяет, что замена документа
// полностью перезаписывает его и сохраняет порядок вставки.
func TestMemoryAdapter_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()

	_, err := a.Save(ctx, "app", "books", []models.Document{
		{"_id": "1", "title": "Dune", "year": 1965},
		{"_id": "2", "title": "Emma"},
	})
	require.NoError(t, err)

	_, err = a.Save(ctx, "app", "books", []models.Document{{"_id": "1", "title": "Dune Messiah"}})
	require.NoError(t, err)

	docs, err := a.Find(ctx, "app", "books")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, models.Document{"_id": "1", "title": "Dune Messiah"}, docs[0])
}

func TestMemoryAdapter_SaveRequiresID(t *testing.T) {
	_, err := NewMemoryAdapter().Save(context.Background(), "app", "books", []models.Document{{"title": "x"}})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestMemoryAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()

	doc := models.Document{"_id": "1", "tags": []any{"a"}}
	_, err := a.Save(ctx, "app", "books", []models.Document{doc})
	require.NoError(t, err)

	doc["title"] = "mutated"

	found, err := a.FindByID(ctx, "app", "books", "1")
	require.NoError(t, err)
	assert.NotContains(t, found, "title")

	found["title"] = "mutated again"
	again, err := a.FindByID(ctx, "app", "books", "1")
	require.NoError(t, err)
	assert.NotContains(t, again, "title")
}

func TestMemoryAdapter_FindByIDNotFound(t *testing.T) {
	_, err := NewMemoryAdapter().FindByID(context.Background(), "app", "books", "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMemoryAdapter_FindUnknownCollection(t *testing.T) {
	docs, err := NewMemoryAdapter().Find(context.Background(), "app", "nothing")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestMemoryAdapter_RemoveByID(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()
	_, err := a.Save(ctx, "app", "books", []models.Document{{"_id": "1"}, {"_id": "2"}, {"_id": "3"}})
	require.NoError(t, err)

	n, err := a.RemoveByID(ctx, "app", "books", "2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = a.RemoveByID(ctx, "app", "books", "2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	docs, err := a.Find(ctx, "app", "books")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0].ID())
	assert.Equal(t, "3", docs[1].ID())
}

func TestMemoryAdapter_ClearAndClearAll(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAdapter()
	for _, coll := range []string{"books", "authors"} {
		_, err := a.Save(ctx, "app", coll, []models.Document{{"_id": "1"}})
		require.NoError(t, err)
	}
	_, err := a.Save(ctx, "other", "books", []models.Document{{"_id": "1"}})
	require.NoError(t, err)

	require.NoError(t, a.Clear(ctx, "app", "books"))
	count, _ := a.Count(ctx, "app", "books")
	assert.Zero(t, count)
	count, _ = a.Count(ctx, "app", "authors")
	assert.Equal(t, 1, count)

	require.NoError(t, a.ClearAll(ctx, "app"))
	count, _ = a.Count(ctx, "app", "authors")
	assert.Zero(t, count)
	count, _ = a.Count(ctx, "other", "books")
	assert.Equal(t, 1, count)
}
