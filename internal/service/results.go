// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/go-sync-store/models"

// Source tells where a [FindResult] came from.
type Source string

const (
	SourceLocal   Source = "local"
	SourceNetwork Source = "network"
)

// FindResult is one emission of [CacheStore.Find].
type FindResult struct {
	Docs   []models.Document
	Source Source
	Err    error
}
