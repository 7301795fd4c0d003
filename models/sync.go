// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncState is the pending operation recorded for a document.
type SyncState string

const (
	// SyncStatePut covers both creates and updates.
	SyncStatePut SyncState = "PUT"
	// SyncStateDelete records a local removal awaiting replay.
	SyncStateDelete SyncState = "DELETE"
)

// SyncEntryIDField holds the mutated document id inside a stored entry.
const SyncEntryIDField = "entityId"

// SyncEntry is one pending mutation. A document has at most one pending
// entry at a time; document ids are only unique within a collection, so
// the entry is stored under [SyncEntry.Key]. Version changes on every
// enqueue.
type SyncEntry struct {
	ID         string    `json:"entityId"`
	Collection string    `json:"collection"`
	State      SyncState `json:"state"`
	Version    string    `json:"version,omitempty"`
}

// SyncEntryKey is the storage id of the entry of document id in collection.
func SyncEntryKey(collection, id string) string {
	return collection + ":" + id
}

// Key returns the storage id of e.
func (e SyncEntry) Key() string {
	return SyncEntryKey(e.Collection, e.ID)
}

// ToDocument encodes the entry for the storage adapter.
func (e SyncEntry) ToDocument() Document {
	return Document{
		IDField:          e.Key(),
		SyncEntryIDField: e.ID,
		"collection":     e.Collection,
		"state":          string(e.State),
		"version":        e.Version,
	}
}

// SyncEntryFromDocument decodes an entry previously written by ToDocument.
func SyncEntryFromDocument(doc Document) SyncEntry {
	id, _ := doc[SyncEntryIDField].(string)
	collection, _ := doc["collection"].(string)
	state, _ := doc["state"].(string)
	version, _ := doc["version"].(string)
	return SyncEntry{ID: id, Collection: collection, State: SyncState(state), Version: version}
}

// PushError describes a sync entry whose replay failed. The entry stays
// queued for the next push.
type PushError struct {
	ID    string    `json:"_id"`
	State SyncState `json:"state"`
	Err   error     `json:"-"`
}

// Error implements error.
func (e PushError) Error() string {
	if e.Err == nil {
		return string(e.State) + " " + e.ID
	}
	return string(e.State) + " " + e.ID + ": " + e.Err.Error()
}

// Unwrap returns the underlying replay failure.
func (e PushError) Unwrap() error {
	return e.Err
}

// PushResult aggregates the outcome of replaying a collection's queue.
type PushResult struct {
	Collection   string      `json:"collection"`
	SuccessCount int         `json:"successCount"`
	ErrorCount   int         `json:"errorCount"`
	Errors       []PushError `json:"errors,omitempty"`
	// Entities are the server copies of successfully pushed PUT entries.
	Entities []Document `json:"entities,omitempty"`
}

// SyncResult is a push followed by a pull.
type SyncResult struct {
	Push PushResult `json:"push"`
	Pull []Document `json:"pull"`
}
