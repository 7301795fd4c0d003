// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package query evaluates [models.Query] values against in-memory documents.
// It has no I/O: the memory storage adapter, the entity cache and the
// development backend all share it so that a query selects the same documents
// wherever it runs.
package query
