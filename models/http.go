// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "net/http"

// Request is a fully built call against the remote collection API.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers http.Header
	Body    any
}

// Response is what the transport got back.
type Response struct {
	StatusCode int
	Headers    http.Header
	Data       []byte
}

// IsSuccess reports a 2xx status.
func (r Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
