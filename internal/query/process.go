// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"sort"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/models"
)

// Process applies q to docs: filter, then sort, then skip and limit, then
// field projection. A nil query returns docs unchanged. The input slice is
// not modified.
func Process(q *models.Query, docs []models.Document) ([]models.Document, error) {
	if q == nil {
		return docs, nil
	}
	if q.Skip < 0 || q.Limit < 0 {
		return nil, errs.New(errs.KindKinvey, "skip and limit must not be negative")
	}

	out := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		ok, err := Match(q.Filter, doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}

	if len(q.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, s := range q.Sort {
				a, _ := lookup(out[i], s.Field)
				b, _ := lookup(out[j], s.Field)
				c := sortCompare(a, b)
				if c == 0 {
					continue
				}
				if s.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Skip > 0 {
		if q.Skip >= len(out) {
			out = out[:0]
		} else {
			out = out[q.Skip:]
		}
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}

	if len(q.Fields) > 0 {
		for i, doc := range out {
			out[i] = project(doc, q.Fields)
		}
	}
	return out, nil
}

// project keeps fields plus the reserved system fields.
func project(doc models.Document, fields []string) models.Document {
	out := make(models.Document, len(fields)+3)
	for _, key := range []string{models.IDField, models.MetadataField, models.ACLField} {
		if v, ok := doc[key]; ok {
			out[key] = v
		}
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
