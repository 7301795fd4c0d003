// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-sync-store/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Adapter is the on-device persistence contract used by the cache layer.
//
// Collections are addressed by (dbName, collection). dbName is the app key;
// collection is the namespaced collection key (for example "books.profile"
// or "kinvey_sync"). Documents are returned in insertion order; replacing a
// document keeps its position.
type Adapter interface {
	// Find returns every document of the collection. A collection that was
	// never written returns an empty slice, not an error.
	Find(ctx context.Context, dbName, collection string) ([]models.Document, error)

	// Count returns the number of documents without decoding them.
	Count(ctx context.Context, dbName, collection string) (int, error)

	// FindByID fails with an errs.KindNotFound error when no document has id.
	FindByID(ctx context.Context, dbName, collection, id string) (models.Document, error)

	// Save upserts docs by "_id": a stored document with the same id is
	// fully replaced. Every document must carry an id.
	Save(ctx context.Context, dbName, collection string, docs []models.Document) ([]models.Document, error)

	// RemoveByID returns 1 when a document was removed and 0 otherwise.
	RemoveByID(ctx context.Context, dbName, collection, id string) (int, error)

	// Clear empties one collection.
	Clear(ctx context.Context, dbName, collection string) error

	// ClearAll empties every collection stored under dbName.
	ClearAll(ctx context.Context, dbName string) error

	// Close releases the underlying resources.
	Close() error
}

// ErrorClassificator decides whether a failed storage operation may succeed
// when attempted again.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
