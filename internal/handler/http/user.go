// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/utils"
)

const tokenIssuer = "syncd"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       string         `json:"_id"`
	Username string         `json:"username"`
	Metadata map[string]any `json:"_kmd"`
}

// login issues a user token. The dev backend has no user database: any
// non-empty username is accepted and becomes the token subject.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if h.app.TokenSignKey == "" {
		h.writeError(w, r, errs.Wrap(errs.KindMissingConfiguration, ErrTokenSigningDisabled, ErrTokenSigningDisabled.Error()))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		h.writeError(w, r, errs.New(errs.KindKinvey, "username is required"))
		return
	}

	token, err := utils.GenerateJWTToken(tokenIssuer, req.Username, h.tokenTTL, h.app.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "Handler.login").Msg("error generating token")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("username", req.Username).Msg("user logged in")
	_, _ = utils.WriteJSON(w, loginResponse{
		ID:       req.Username,
		Username: req.Username,
		Metadata: map[string]any{"authtoken": token},
	}, http.StatusOK)
}
