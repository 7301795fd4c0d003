// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoCollectionHandler = errors.New("collection backend has no HTTP handler")
	errNoListenAddress     = errors.New("collection backend has no listen address")
)
