// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a dev backend listen address in format [host]:[port]
//	-u backend base URL used by the client
//	-app-key application key
//	-app-secret application secret
//	-tag cache tag
//	-driver storage driver (memory, sqlite, postgres)
//	-d storage DSN
//	-c/-config json file path with configs
//	-token-sign-key token verification key of the dev backend
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval background sync period (e.g., "5m")
//	-page-size auto-pagination page size
//	-log-path rotating log file
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("sync-store", flag.ContinueOnError)

	var serverAddress NetAddress
	var backendURL string
	var appKey, appSecret, tag string
	var driver, dsn string
	var jsonConfigPath string
	var tokenSignKey string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var pageSize int
	var logPath string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&backendURL, "u", "", "Backend base URL")
	fs.StringVar(&appKey, "app-key", "", "Application key")
	fs.StringVar(&appSecret, "app-secret", "", "Application secret")
	fs.StringVar(&tag, "tag", "", "Cache tag")
	fs.StringVar(&driver, "driver", "", "Storage driver: memory, sqlite or postgres")
	fs.StringVar(&dsn, "d", "", "Storage DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token verification key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	fs.IntVar(&pageSize, "page-size", 0, "Auto-pagination page size")
	fs.StringVar(&logPath, "log-path", "", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			AppKey:       appKey,
			AppSecret:    appSecret,
			Tag:          tag,
			TokenSignKey: tokenSignKey,
		},
		Storage: Storage{
			Driver: driver,
			DSN:    dsn,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    backendURL,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		Sync:         Sync{PageSize: pageSize},
		Log:          Log{Path: logPath},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
