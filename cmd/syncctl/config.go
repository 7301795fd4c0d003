// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-sync-store/internal/client"
	"github.com/MKhiriev/go-sync-store/internal/config"
	"github.com/MKhiriev/go-sync-store/internal/logger"
)

// configFlag maps a syncctl flag onto the flag understood by
// config.GetClientConfig.
type configFlag struct {
	name      string
	shorthand string
	target    string
	usage     string
}

var configFlags = []configFlag{
	{name: "config", shorthand: "c", target: "config", usage: "JSON config file path"},
	{name: "url", shorthand: "u", target: "u", usage: "Backend base URL"},
	{name: "app-key", target: "app-key", usage: "Application key"},
	{name: "app-secret", target: "app-secret", usage: "Application secret"},
	{name: "tag", target: "tag", usage: "Cache tag"},
	{name: "driver", target: "driver", usage: "Storage driver: memory, sqlite or postgres"},
	{name: "dsn", shorthand: "d", target: "d", usage: "Storage DSN"},
	{name: "request-timeout", target: "request-timeout", usage: "Request timeout (e.g., 30s)"},
	{name: "sync-interval", target: "sync-interval", usage: "Background sync interval for watch (e.g., 5m)"},
	{name: "page-size", target: "page-size", usage: "Auto-pagination page size"},
	{name: "log-path", target: "log-path", usage: "Log file path; logging is off when empty"},
}

func registerConfigFlags(root *cobra.Command) {
	for _, f := range configFlags {
		root.PersistentFlags().StringP(f.name, f.shorthand, "", f.usage)
	}
}

// configArgs turns the flags set on cmd into config package arguments.
func configArgs(cmd *cobra.Command) []string {
	var args []string
	for _, f := range configFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetString(f.name)
		if err != nil {
			continue
		}
		args = append(args, "-"+f.target+"="+value)
	}
	return args
}

// withClient opens a client for the duration of fn.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	cfg, err := config.GetClientConfig(configArgs(cmd))
	if err != nil {
		return err
	}

	log := logger.Nop()
	if cfg.Log.Path != "" {
		log = logger.NewClientLogger("syncctl", cfg.Log.Path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := client.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing client")
		}
	}()

	return fn(ctx, c)
}
