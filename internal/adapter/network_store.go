// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

const (
	countPath    = "_count"
	deltaSetPath = "_deltaset"
)

type networkStore struct {
	pipeline *Pipeline
	appKey   string
	logger   *logger.Logger
}

// NewNetworkStore returns a [NetworkStore] for the app appKey.
func NewNetworkStore(pipeline *Pipeline, appKey string, log *logger.Logger) NetworkStore {
	return &networkStore{pipeline: pipeline, appKey: appKey, logger: log}
}

func (n *networkStore) path(collection string, elems ...string) string {
	parts := append([]string{"appdata", url.PathEscape(n.appKey), url.PathEscape(collection)}, elems...)
	return "/" + strings.Join(parts, "/")
}

func (n *networkStore) Find(ctx context.Context, collection string, q *models.Query) ([]models.Document, http.Header, error) {
	params, err := EncodeQuery(q)
	if err != nil {
		return nil, nil, err
	}

	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodGet,
		Path:   n.path(collection),
		Query:  params,
	})
	if err != nil {
		return nil, nil, err
	}

	var docs []models.Document
	if err = decode(resp, &docs); err != nil {
		return nil, nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	n.logger.Debug().Str("collection", collection).Int("count", len(docs)).Msg("fetched documents")
	return docs, resp.Headers, nil
}

func (n *networkStore) FindByID(ctx context.Context, collection, id string) (models.Document, error) {
	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodGet,
		Path:   n.path(collection, url.PathEscape(id)),
	})
	if err != nil {
		return nil, err
	}

	var doc models.Document
	return doc, decode(resp, &doc)
}

func (n *networkStore) Count(ctx context.Context, collection string, q *models.Query) (int, error) {
	params, err := EncodeQuery(q.FilterOnly())
	if err != nil {
		return 0, err
	}

	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodGet,
		Path:   n.path(collection, countPath),
		Query:  params,
	})
	if err != nil {
		return 0, err
	}

	var body struct {
		Count int `json:"count"`
	}
	return body.Count, decode(resp, &body)
}

func (n *networkStore) Create(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodPost,
		Path:   n.path(collection),
		Body:   doc,
	})
	if err != nil {
		return nil, err
	}

	var created models.Document
	return created, decode(resp, &created)
}

func (n *networkStore) Update(ctx context.Context, collection string, doc models.Document) (models.Document, error) {
	id := doc.ID()
	if id == "" {
		return nil, errs.New(errs.KindKinvey, "cannot update a document without _id")
	}

	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodPut,
		Path:   n.path(collection, url.PathEscape(id)),
		Body:   doc,
	})
	if err != nil {
		return nil, err
	}

	var updated models.Document
	return updated, decode(resp, &updated)
}

func (n *networkStore) RemoveByID(ctx context.Context, collection, id string) (int, error) {
	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodDelete,
		Path:   n.path(collection, url.PathEscape(id)),
	})
	if err != nil {
		return 0, err
	}

	var body struct {
		Count int `json:"count"`
	}
	if len(bytes.TrimSpace(resp.Data)) == 0 {
		return 1, nil
	}
	return body.Count, decode(resp, &body)
}

func (n *networkStore) DeltaSet(ctx context.Context, collection string, q *models.Query, since string) (models.DeltaSet, http.Header, error) {
	params, err := EncodeQuery(q.FilterOnly())
	if err != nil {
		return models.DeltaSet{}, nil, err
	}
	params["since"] = since

	resp, err := n.pipeline.Execute(ctx, models.Request{
		Method: http.MethodGet,
		Path:   n.path(collection, deltaSetPath),
		Query:  params,
	})
	if err != nil {
		return models.DeltaSet{}, nil, err
	}

	var delta models.DeltaSet
	if err = decode(resp, &delta); err != nil {
		return models.DeltaSet{}, nil, err
	}
	return delta, resp.Headers, nil
}

func decode(resp models.Response, v any) error {
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return errs.Wrap(errs.KindServer, err, "malformed response body")
	}
	return nil
}
