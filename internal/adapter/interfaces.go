// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the remote collection API.
//
// A [Transport] executes one fully built [models.Request]. The [Pipeline]
// builds requests and interprets responses through ordered stages composed
// once at startup. [NetworkStore] is the collection-level view the sync
// engine uses.
//
// Every failure is an *errs.Error: transport faults carry
// KindNetworkConnection or KindTimeout, non-2xx answers carry the kind named
// by the backend's error body (or derived from the status).
package adapter

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-sync-store/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/network_store_mock.go -package=mock

// Transport executes a built request. A non-2xx status is not an error at
// this level.
type Transport interface {
	Do(ctx context.Context, req models.Request) (models.Response, error)
}

// NetworkStore issues CRUD calls against /appdata/{appKey}/{collection}.
type NetworkStore interface {
	// Find returns the documents selected by q and the response headers.
	Find(ctx context.Context, collection string, q *models.Query) ([]models.Document, http.Header, error)

	// FindByID fails with an errs.KindNotFound error for an unknown id.
	FindByID(ctx context.Context, collection, id string) (models.Document, error)

	// Count returns how many documents match q.
	Count(ctx context.Context, collection string, q *models.Query) (int, error)

	// Create stores doc and returns the server copy with its assigned id.
	Create(ctx context.Context, collection string, doc models.Document) (models.Document, error)

	// Update replaces the document with doc's id.
	Update(ctx context.Context, collection string, doc models.Document) (models.Document, error)

	// RemoveByID returns the number of removed documents.
	RemoveByID(ctx context.Context, collection, id string) (int, error)

	// DeltaSet returns what changed in the q selection since the given
	// ISO-8601 time.
	DeltaSet(ctx context.Context, collection string, q *models.Query, since string) (models.DeltaSet, http.Header, error)
}
