// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		AppKey       string `json:"app_key"`
		AppSecret    string `json:"app_secret"`
		Version      string `json:"version"`
		Tag          string `json:"tag"`
		TokenSignKey string `json:"token_sign_key"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
		Collections  []string `json:"collections"`
	} `json:"workers,omitempty"`

	Sync struct {
		PageSize       int      `json:"page_size"`
		AutoPagination bool     `json:"auto_pagination"`
		UseDeltaSet    bool     `json:"use_delta_set"`
		QueryMaxAge    Duration `json:"query_max_age"`
	} `json:"sync,omitempty"`

	Log struct {
		Path string `json:"path"`
	} `json:"log,omitempty"`

	Session struct {
		Token string `json:"token"`
	} `json:"session,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AppKey:       jsonCfg.App.AppKey,
			AppSecret:    jsonCfg.App.AppSecret,
			Version:      jsonCfg.App.Version,
			Tag:          jsonCfg.App.Tag,
			TokenSignKey: jsonCfg.App.TokenSignKey,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DSN:    jsonCfg.Storage.DSN,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval),
			Collections:  jsonCfg.Workers.Collections,
		},
		Sync: Sync{
			PageSize:       jsonCfg.Sync.PageSize,
			AutoPagination: jsonCfg.Sync.AutoPagination,
			UseDeltaSet:    jsonCfg.Sync.UseDeltaSet,
			QueryMaxAge:    time.Duration(jsonCfg.Sync.QueryMaxAge),
		},
		Log:     Log{Path: jsonCfg.Log.Path},
		Session: Session{Token: jsonCfg.Session.Token},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
