// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Reserved document fields.
const (
	// IDField holds the document identifier, unique within a collection.
	IDField = "_id"
	// MetadataField holds the system metadata map (lmt, local).
	MetadataField = "_kmd"
	// ACLField holds the access-control map. It is passed through untouched.
	ACLField = "_acl"

	lastModifiedKey = "lmt"
	localKey        = "local"
)

// Document is a schemaless JSON-like record stored in a collection.
//
// Every persisted document carries an "_id" string. Documents created while
// offline receive a locally generated id and have "_kmd.local" set to true
// until the server confirms them.
type Document map[string]any

// ID returns the document identifier or an empty string when it is unset.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// SetID assigns the document identifier.
func (d Document) SetID(id string) {
	d[IDField] = id
}

// Metadata returns the "_kmd" map, or nil when the document has none.
func (d Document) Metadata() map[string]any {
	kmd, _ := d[MetadataField].(map[string]any)
	return kmd
}

// LastModified returns "_kmd.lmt" or an empty string.
func (d Document) LastModified() string {
	lmt, _ := d.Metadata()[lastModifiedKey].(string)
	return lmt
}

// SetLastModified stores lmt under "_kmd.lmt", creating "_kmd" when needed.
func (d Document) SetLastModified(lmt string) {
	kmd := d.Metadata()
	if kmd == nil {
		kmd = make(map[string]any)
		d[MetadataField] = kmd
	}
	kmd[lastModifiedKey] = lmt
}

// IsLocal reports whether the document id was generated on the device and
// has not been confirmed by the server yet.
func (d Document) IsLocal() bool {
	local, _ := d.Metadata()[localKey].(bool)
	return local
}

// MarkLocal sets "_kmd.local" to true, creating "_kmd" when needed.
func (d Document) MarkLocal() {
	kmd := d.Metadata()
	if kmd == nil {
		kmd = make(map[string]any)
		d[MetadataField] = kmd
	}
	kmd[localKey] = true
}

// UnmarkLocal drops "_kmd.local" and removes "_kmd" when it becomes empty.
func (d Document) UnmarkLocal() {
	kmd := d.Metadata()
	if kmd == nil {
		return
	}
	delete(kmd, localKey)
	if len(kmd) == 0 {
		delete(d, MetadataField)
	}
}

// Clone returns a deep copy of the document. Nested maps and slices are
// copied; scalar values are shared.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// CloneDocuments deep-copies every document of docs.
func CloneDocuments(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = doc.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Document:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
