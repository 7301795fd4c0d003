// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SortField orders query results by a single (possibly dotted) field.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending,omitempty"`
}

// Query describes which documents of a collection to return.
//
// Filter uses a MongoDB-like syntax: plain values mean equality, operator maps
// ($eq, $ne, $gt, $gte, $lt, $lte, $in, $nin, $exists, $regex) compare, and
// $and / $or / $nor combine sub-filters. Limit of zero means no limit.
type Query struct {
	Filter map[string]any `json:"filter,omitempty"`
	Sort   []SortField    `json:"sort,omitempty"`
	Fields []string       `json:"fields,omitempty"`
	Skip   int            `json:"skip,omitempty"`
	Limit  int            `json:"limit,omitempty"`
}

// NewQuery returns a query matching documents equal to filter.
func NewQuery(filter map[string]any) *Query {
	return &Query{Filter: filter}
}

// IsPaginated reports whether the query selects a window instead of the full
// matching set.
func (q *Query) IsPaginated() bool {
	return q != nil && (q.Skip > 0 || q.Limit > 0)
}

// FilterOnly returns a copy of q keeping only its filter. A nil query stays nil.
func (q *Query) FilterOnly() *Query {
	if q == nil {
		return nil
	}
	return &Query{Filter: q.Filter}
}

// WithPage returns a copy of q selecting the given window.
func (q *Query) WithPage(skip, limit int) *Query {
	out := Query{}
	if q != nil {
		out = *q
	}
	out.Skip = skip
	out.Limit = limit
	return &out
}
