// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"regexp"
)

var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// validate checks source-independent invariants of the merged config.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.PageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative", ErrInvalidSyncConfigs)
	}
	if cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.App.AppKey == "" {
		return fmt.Errorf("%w: app key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.AppSecret == "" && cfg.Session.Token == "" {
		return fmt.Errorf("%w: app secret or session token is required", ErrInvalidAppConfigs)
	}
	if cfg.App.Tag != "" && !tagPattern.MatchString(cfg.App.Tag) {
		return fmt.Errorf("%w: tag %q may contain only letters, digits and dashes", ErrInvalidAppConfigs, cfg.App.Tag)
	}

	if err := validateStorage(cfg.Storage); err != nil {
		return err
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval > 0 && len(cfg.Workers.Collections) == 0 {
		return fmt.Errorf("%w: sync interval set without collections", ErrInvalidWorkerConfigs)
	}

	if cfg.Sync.PageSize <= 0 || cfg.Sync.QueryMaxAge < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	return validateStorage(cfg.Storage)
}

func validateStorage(s Storage) error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverSQLite, DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("%w: %s driver requires a DSN", ErrInvalidStorageConfigs, s.Driver)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, s.Driver)
	}
}
