// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
)

var kindStatus = map[errs.Kind]int{
	errs.KindNotFound:                 http.StatusNotFound,
	errs.KindInvalidCredentials:       http.StatusUnauthorized,
	errs.KindMissingConfiguration:     http.StatusBadRequest,
	errs.KindParameterValueOutOfRange: http.StatusBadRequest,
	errs.KindKinvey:                   http.StatusBadRequest,
}

var authErrors = []error{
	ErrEmptyAuthorizationHeader,
	ErrInvalidAuthorizationHeader,
	ErrInvalidAppCredentials,
	ErrInvalidToken,
}

// statusFromError maps err to the response status and the wire error name
// the client decodes back into an errs.Kind.
func statusFromError(err error) (int, errs.Kind) {
	for _, authErr := range authErrors {
		if errors.Is(err, authErr) {
			return http.StatusUnauthorized, errs.KindInvalidCredentials
		}
	}
	if errors.Is(err, store.ErrMissingID) {
		return http.StatusBadRequest, errs.KindKinvey
	}

	kind := errs.KindOf(err)
	if status, ok := kindStatus[kind]; ok {
		return status, kind
	}
	return http.StatusInternalServerError, errs.KindServer
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", "Handler.writeError").Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", "Handler.writeError").Int("status", status).Send()
	}

	description := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && e.Message != "" {
		description = e.Message
	}
	utils.WriteError(w, status, kind.String(), description)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, errs.Newf(errs.KindNotFound, "no route for %s %s", r.Method, r.URL.Path))
}
