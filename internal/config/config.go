// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the development backend. It is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App identifies the application against the backend.
	App App `envPrefix:"APP_"`

	// Storage selects the on-device persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen address and timeout settings for the dev backend.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the outbound HTTP settings of the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds the default pull behaviour.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log output settings.
	Log Log `envPrefix:"LOG_"`

	// Session holds a pre-issued user token, if any.
	Session Session `envPrefix:"SESSION_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application identity and token settings.
type App struct {
	// AppKey is the application key. It is also the name of the local
	// database namespace.
	// Env: APP_KEY
	AppKey string `env:"KEY"`

	// AppSecret is used for Basic authentication when no user session is
	// active.
	// Env: APP_SECRET
	AppSecret string `env:"SECRET"`

	// Version is reported to the backend in the X-Kinvey-Client-App-Version
	// header.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// Tag isolates a set of local caches (for example, per user profile).
	// Env: APP_TAG
	Tag string `env:"TAG"`

	// TokenSignKey verifies user tokens on the dev backend. Empty disables
	// verification.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`
}

// Storage selects the persistence backend.
type Storage struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the data source name for the sqlite and postgres drivers.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the dev backend.
type Server struct {
	// HTTPAddress is the TCP address the dev backend listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds outbound client settings.
type Adapter struct {
	// HTTPAddress is the backend base URL (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the default timeout of one outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the background sync job.
type Workers struct {
	// SyncInterval is the period of the background sync. Zero disables it.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// Collections lists the collections the job synchronizes.
	// Env: WORKERS_COLLECTIONS (comma separated)
	Collections []string `env:"COLLECTIONS" envSeparator:","`
}

// Sync holds default pull options.
type Sync struct {
	// PageSize is the page size of auto-paginated pulls.
	// Env: SYNC_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`

	// AutoPagination makes pulls fetch the collection page by page.
	// Env: SYNC_AUTO_PAGINATION
	AutoPagination bool `env:"AUTO_PAGINATION"`

	// UseDeltaSet makes pulls request only changes since the last pull.
	// Env: SYNC_USE_DELTA_SET
	UseDeltaSet bool `env:"USE_DELTA_SET"`

	// QueryMaxAge is how long a pulled query stays fresh for cache-mode
	// reads. Zero means a pulled query never goes stale.
	// Env: SYNC_QUERY_MAX_AGE
	QueryMaxAge time.Duration `env:"QUERY_MAX_AGE"`
}

// Log holds log output settings.
type Log struct {
	// Path of the rotating log file. Empty logs to stdout.
	// Env: LOG_PATH
	Path string `env:"PATH"`
}

// Session holds the active user token.
type Session struct {
	// Token is a bearer token issued by the backend.
	// Env: SESSION_TOKEN
	Token string `env:"TOKEN"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
