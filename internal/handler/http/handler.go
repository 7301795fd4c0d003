// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/utils"
)

// defaultTokenTTL is how long tokens issued by login stay valid.
const defaultTokenTTL = 24 * time.Hour

type Handler struct {
	storage store.Adapter
	app     config.App
	timeout time.Duration

	tokenTTL time.Duration
	ids      *utils.UUIDGenerator
	now      func() time.Time

	logger *logger.Logger
}

func NewHandler(storage store.Adapter, cfg *config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		storage:  storage,
		app:      cfg.App,
		timeout:  cfg.Server.RequestTimeout,
		tokenTTL: defaultTokenTTL,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   logger,
	}
}
