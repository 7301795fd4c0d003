// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/internal/utils"
	"github.com/MKhiriev/go-sync-store/models"
)

const lmtLayout = "2006-01-02T15:04:05.000Z"

type countResponse struct {
	Count int `json:"count"`
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")

	q, err := queryFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	docs, err := h.storage.Find(r.Context(), appKey, collection)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := query.Process(q, docs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")

	q, err := queryFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	docs, err := h.storage.Find(r.Context(), appKey, collection)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	matched, err := query.Process(q.FilterOnly(), docs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, countResponse{Count: len(matched)}, http.StatusOK)
}

func (h *Handler) findByID(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	doc, err := h.storage.FindByID(r.Context(), appKey, collection, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")

	doc, err := decodeDocument(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if doc.ID() == "" {
		doc.SetID(h.ids.ObjectID())
	}

	saved, err := h.save(r, appKey, collection, doc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("collection", collection).Str("id", saved.ID()).Msg("document created")
	_, _ = utils.WriteJSON(w, saved, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")

	doc, err := decodeDocument(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc.SetID(chi.URLParam(r, "id"))

	saved, err := h.save(r, appKey, collection, doc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, saved, http.StatusOK)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request) {
	appKey, collection := chi.URLParam(r, "appKey"), chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	removed, err := h.storage.RemoveByID(r.Context(), appKey, collection, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if removed == 0 {
		h.writeError(w, r, errs.Newf(errs.KindNotFound, "entity %q not found", id))
		return
	}

	_, _ = utils.WriteJSON(w, countResponse{Count: removed}, http.StatusOK)
}

// deltaSet answers like a backend with delta sets disabled for every
// collection; clients fall back to a regular pull.
func (h *Handler) deltaSet(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, errs.Newf(errs.KindMissingConfiguration,
		"delta set is not enabled for collection %q", chi.URLParam(r, "collection")))
}

// save stamps server metadata and persists doc. Client-only flags never
// reach storage.
func (h *Handler) save(r *http.Request, appKey, collection string, doc models.Document) (models.Document, error) {
	doc.UnmarkLocal()
	doc.SetLastModified(h.now().UTC().Format(lmtLayout))
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		if _, hasACL := doc[models.ACLField]; !hasACL {
			doc[models.ACLField] = map[string]any{"creator": userID}
		}
	}

	saved, err := h.storage.Save(r.Context(), appKey, collection, []models.Document{doc})
	if err != nil {
		return nil, err
	}
	return saved[0], nil
}

func decodeDocument(r *http.Request) (models.Document, error) {
	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.KindKinvey, err, "request body is not a JSON object")
	}
	if doc == nil {
		return nil, errs.New(errs.KindKinvey, "request body is not a JSON object")
	}
	return doc, nil
}

func queryFromRequest(r *http.Request) (*models.Query, error) {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return adapter.DecodeQuery(params)
}

// ping answers the app handshake with the backend version.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string]string{
		"version": h.app.Version,
		"kinvey":  "hello " + chi.URLParam(r, "appKey"),
		"time":    h.now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
