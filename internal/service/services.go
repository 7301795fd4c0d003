// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/cache"
	"github.com/MKhiriev/go-sync-store/internal/logger"
	"github.com/MKhiriev/go-sync-store/models"
)

// Services bundles the sync engine of one tag with the stores built on it.
type Services struct {
	Manager SyncManager
	SyncJob SyncJob

	registry *cache.Registry
	network  adapter.NetworkStore
	tag      string
	maxAge   time.Duration
	logger   *logger.Logger
}

// ServicesOptions configure [NewServices].
type ServicesOptions struct {
	Tag         string
	Pull        models.PullOptions
	QueryMaxAge time.Duration
	// Collections synced by the background job.
	Collections []string
}

// NewServices wires the sync manager and the background job.
func NewServices(registry *cache.Registry, network adapter.NetworkStore, opts ServicesOptions, log *logger.Logger) (*Services, error) {
	manager, err := NewSyncManager(registry, network, opts.Tag, opts.Pull, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Manager:  manager,
		SyncJob:  NewSyncJob(manager, opts.Collections, opts.Pull, log),
		registry: registry,
		network:  network,
		tag:      opts.Tag,
		maxAge:   opts.QueryMaxAge,
		logger:   log,
	}, nil
}

// SyncStore returns the offline-first handle of collection.
func (s *Services) SyncStore(collection string) (SyncStore, error) {
	return NewSyncStore(s.registry, s.Manager, collection, s.tag, s.logger)
}

// CacheStore returns the read-through handle of collection.
func (s *Services) CacheStore(collection string) (CacheStore, error) {
	return NewCacheStore(s.registry, s.Manager, s.network, collection, s.tag, s.maxAge, s.logger)
}
