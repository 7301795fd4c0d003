// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/internal/session"
	"github.com/MKhiriev/go-sync-store/internal/store"
	"github.com/MKhiriev/go-sync-store/internal/workers"
	"github.com/MKhiriev/go-sync-store/models"
)

// Client owns every resource of one initialized app. Close releases them.
type Client struct {
	storage  store.Adapter
	registry *cache.Registry
	session  *session.Session
	users    *adapter.UserStore
	services *service.Services

	cfg    *config.ClientConfig
	logger *logger.Logger
}

// New initializes a client from cfg. The storage adapter is opened (and
// migrated) here; a configured session token is activated.
func New(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*Client, error) {
	storage, err := store.NewAdapter(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("error opening storage: %w", err)
	}

	c, err := newClient(storage, cfg, log)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	return c, nil
}

func newClient(storage store.Adapter, cfg *config.ClientConfig, log *logger.Logger) (*Client, error) {
	sess := session.New()
	if cfg.Session.Token != "" {
		if err := sess.Login(cfg.Session.Token); err != nil {
			return nil, fmt.Errorf("error activating session token: %w", err)
		}
	}

	transport, err := adapter.NewHTTPTransport(cfg.Adapter.HTTPAddress, cfg.Adapter.RequestTimeout, log)
	if err != nil {
		return nil, err
	}
	pipeline := adapter.DefaultPipeline(transport, sess, cfg.App.AppKey, cfg.App.AppSecret, cfg.App.Version)

	registry := cache.NewRegistry(storage, cfg.App.AppKey, log)
	services, err := service.NewServices(registry, adapter.NewNetworkStore(pipeline, cfg.App.AppKey, log), service.ServicesOptions{
		Tag: cfg.App.Tag,
		Pull: models.PullOptions{
			AutoPagination: cfg.Sync.AutoPagination,
			PageSize:       cfg.Sync.PageSize,
			UseDeltaSet:    cfg.Sync.UseDeltaSet,
		},
		QueryMaxAge: cfg.Sync.QueryMaxAge,
		Collections: cfg.Workers.Collections,
	}, log)
	if err != nil {
		return nil, err
	}

	log.Info().Str("app_key", cfg.App.AppKey).Str("tag", cfg.App.Tag).Str("storage", cfg.Storage.Driver).Msg("client initialized")

	return &Client{
		storage:  storage,
		registry: registry,
		session:  sess,
		users:    adapter.NewUserStore(pipeline, cfg.App.AppKey, log),
		services: services,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// SyncStore returns the offline-first store of collection.
func (c *Client) SyncStore(collection string) (service.SyncStore, error) {
	return c.services.SyncStore(collection)
}

// CacheStore returns the read-through store of collection.
func (c *Client) CacheStore(collection string) (service.CacheStore, error) {
	return c.services.CacheStore(collection)
}

// SyncManager exposes the engine shared by every store of this client.
func (c *Client) SyncManager() service.SyncManager {
	return c.services.Manager
}

// Session returns the active user session.
func (c *Client) Session() *session.Session {
	return c.session
}

// Login authenticates a user and activates the returned token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.users.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return c.session.Login(token)
}

// Logout forgets the user token; requests fall back to app credentials.
func (c *Client) Logout() {
	c.session.Revoke()
}

// RunWorkers runs the background sync job until ctx is done.
func (c *Client) RunWorkers(ctx context.Context) error {
	return workers.NewWorkers(
		workers.NewSyncWorker(c.services.SyncJob, c.cfg.Workers.SyncInterval, c.logger),
	).Run(ctx)
}

// ClearAll wipes every collection, pending change and query record stored
// under the app key, for every tag.
func (c *Client) ClearAll(ctx context.Context) error {
	if err := c.registry.ClearAll(ctx); err != nil {
		c.logger.Err(err).Str("func", "Client.ClearAll").Msg("error clearing local data")
		return err
	}
	return nil
}

// Close releases the storage adapter.
func (c *Client) Close() error {
	return c.storage.Close()
}
