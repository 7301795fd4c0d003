// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultPageSize       = 10000
	defaultRequestTimeout = 60 * time.Second
)

// ClientConfig is the configuration view used by the sync client runtime.
type ClientConfig struct {
	App     App
	Adapter Adapter
	Storage Storage
	Workers Workers
	Sync    Sync
	Log     Log
	Session Session
}

// ServerConfig is the configuration view used by the dev backend.
type ServerConfig struct {
	App     App
	Server  Server
	Storage Storage
	Log     Log
}

// GetClientConfig builds and validates a client config from the merged
// structured configuration. Unset values get their defaults first.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.ClientConfig()
	return clientCfg, clientCfg.validate()
}

// GetServerConfig builds and validates the dev backend config.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := cfg.ServerConfig()
	return serverCfg, serverCfg.validate()
}

// ClientConfig maps the fields relevant to the client and fills defaults.
func (cfg *StructuredConfig) ClientConfig() *ClientConfig {
	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
		Sync:    cfg.Sync,
		Log:     cfg.Log,
		Session: cfg.Session,
	}

	if clientCfg.Storage.Driver == "" {
		clientCfg.Storage.Driver = DriverMemory
	}
	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if clientCfg.Sync.PageSize == 0 {
		clientCfg.Sync.PageSize = defaultPageSize
	}

	return clientCfg
}

// ServerConfig maps the fields relevant to the dev backend and fills defaults.
func (cfg *StructuredConfig) ServerConfig() *ServerConfig {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		Server:  cfg.Server,
		Storage: cfg.Storage,
		Log:     cfg.Log,
	}

	if serverCfg.Storage.Driver == "" {
		serverCfg.Storage.Driver = DriverMemory
	}
	if serverCfg.Server.RequestTimeout == 0 {
		serverCfg.Server.RequestTimeout = defaultRequestTimeout
	}

	return serverCfg
}
