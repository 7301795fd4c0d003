// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// QueryCacheEntry records when a query signature was last confirmed by the
// server for a collection.
type QueryCacheEntry struct {
	ID          string `json:"_id"`
	Collection  string `json:"collectionName"`
	Query       string `json:"query"`
	LastRequest string `json:"lastRequest"`
}

// ToDocument encodes the entry for the storage adapter.
func (e QueryCacheEntry) ToDocument() Document {
	doc := Document{
		"collectionName": e.Collection,
		"query":          e.Query,
		"lastRequest":    e.LastRequest,
	}
	if e.ID != "" {
		doc[IDField] = e.ID
	}
	return doc
}

// QueryCacheEntryFromDocument decodes an entry previously written by ToDocument.
func QueryCacheEntryFromDocument(doc Document) QueryCacheEntry {
	collection, _ := doc["collectionName"].(string)
	query, _ := doc["query"].(string)
	lastRequest, _ := doc["lastRequest"].(string)
	return QueryCacheEntry{ID: doc.ID(), Collection: collection, Query: query, LastRequest: lastRequest}
}

// DeltaSet is the server answer to a "changes since" request.
type DeltaSet struct {
	Changed []Document `json:"changed"`
	Deleted []Document `json:"deleted"`
}
