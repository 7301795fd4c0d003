// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the authentication middleware. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned when the request carries no
	// "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header is neither
	// "Basic <credentials>" nor "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidAppCredentials is returned when Basic credentials do not
	// name this app or carry a wrong secret.
	ErrInvalidAppCredentials = errors.New("invalid app credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenSigningDisabled is returned by login when no sign key is set.
	ErrTokenSigningDisabled = errors.New("token signing is not configured")
)
