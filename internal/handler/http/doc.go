// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the development collection backend. It serves
// /appdata/{appKey}/{collection} with the same REST contract the sync
// client speaks, keeping documents in a store.Adapter. Authentication,
// logging, tracing and compression are handled here before a request
// reaches the storage layer.
package http
