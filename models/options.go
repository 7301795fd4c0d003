// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PullOptions tune how a pull talks to the network.
type PullOptions struct {
	// AutoPagination fetches the full result in pages of PageSize documents.
	AutoPagination bool
	// PageSize bounds a single page when AutoPagination is on.
	PageSize int
	// UseDeltaSet asks the server only for changes since the last pull of
	// the same query.
	UseDeltaSet bool
	// Timeout bounds the whole pull. Zero means no extra deadline.
	Timeout time.Duration
}

// FindOptions tune a Cache-mode find.
type FindOptions struct {
	// ForceRefresh always hits the network even for a fresh query.
	ForceRefresh bool
	// Pull options used by the network phase.
	Pull PullOptions
}
