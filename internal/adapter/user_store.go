// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-sync-store/internal/errs"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

type loginResponse struct {
	Metadata struct {
		AuthToken string `json:"authtoken"`
	} `json:"_kmd"`
}

// UserStore talks to the user endpoints of the backend.
type UserStore struct {
	pipeline *Pipeline
	appKey   string
	logger   *logger.Logger
}

func NewUserStore(pipeline *Pipeline, appKey string, log *logger.Logger) *UserStore {
	return &UserStore{pipeline: pipeline, appKey: appKey, logger: log}
}

// Login exchanges username and password for a session token.
func (u *UserStore) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := u.pipeline.Execute(ctx, models.Request{
		Method: http.MethodPost,
		Path:   "/user/" + url.PathEscape(u.appKey) + "/login",
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		u.logger.Err(err).Str("func", "UserStore.Login").Str("username", username).Msg("login failed")
		return "", err
	}

	var body loginResponse
	if err = decode(resp, &body); err != nil {
		return "", err
	}
	if body.Metadata.AuthToken == "" {
		return "", errs.New(errs.KindServer, "login response carries no auth token")
	}
	return body.Metadata.AuthToken, nil
}
