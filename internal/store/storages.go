// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
)

// NewAdapter opens the storage backend selected by cfg.Driver. SQL
// backends are migrated before they are returned.
func NewAdapter(ctx context.Context, cfg config.Storage, log *logger.Logger) (Adapter, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Debug().Str("func", "NewAdapter").Msg("using in-memory storage")
		return NewMemoryAdapter(), nil
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DSN, log)
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		log.Err(err).Str("func", "NewAdapter").Msg("error migrating storage")
		return nil, fmt.Errorf("error migrating storage: %w", err)
	}

	return NewSQLAdapter(db), nil
}
