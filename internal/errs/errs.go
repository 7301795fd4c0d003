// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package errs defines the single error type shared by the cache, network and
// sync layers. Instead of a hierarchy of error types every failure carries a
// Kind tag; callers match on the kind with [errors.Is] against the exported
// sentinels or switch on [KindOf].
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an [Error].
type Kind int

const (
	// KindUnknown is used for errors that did not originate in this module.
	KindUnknown Kind = iota
	// KindNotFound means a lookup by id found nothing. Usually recoverable.
	KindNotFound
	// KindNetworkConnection means the remote endpoint could not be reached.
	KindNetworkConnection
	// KindTimeout means the request did not complete in time.
	KindTimeout
	// KindServer is any other non-2xx answer.
	KindServer
	// KindInvalidCredentials is a 401 answer.
	KindInvalidCredentials
	// KindMissingConfiguration is returned when the backend lacks a feature
	// the request needs (for example delta sets).
	KindMissingConfiguration
	// KindParameterValueOutOfRange is returned when a request parameter was
	// rejected by the backend.
	KindParameterValueOutOfRange
	// KindKinvey covers programmer errors: invalid queries, tags or setup.
	KindKinvey
)

var kindNames = map[Kind]string{
	KindUnknown:                  "UnknownError",
	KindNotFound:                 "NotFoundError",
	KindNetworkConnection:        "NetworkConnectionError",
	KindTimeout:                  "TimeoutError",
	KindServer:                   "ServerError",
	KindInvalidCredentials:       "InvalidCredentialsError",
	KindMissingConfiguration:     "MissingConfigurationError",
	KindParameterValueOutOfRange: "ParameterValueOutOfRangeError",
	KindKinvey:                   "KinveyError",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// KindFromName maps a wire name back to a Kind. Unknown names give KindUnknown.
func KindFromName(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// Error is the tagged error value.
type Error struct {
	Kind       Kind
	Message    string
	Debug      string
	StatusCode int
	Err        error
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrNetworkConnection        = &Error{Kind: KindNetworkConnection}
	ErrTimeout                  = &Error{Kind: KindTimeout}
	ErrServer                   = &Error{Kind: KindServer}
	ErrInvalidCredentials       = &Error{Kind: KindInvalidCredentials}
	ErrMissingConfiguration     = &Error{Kind: KindMissingConfiguration}
	ErrParameterValueOutOfRange = &Error{Kind: KindParameterValueOutOfRange}
	ErrKinvey                   = &Error{Kind: KindKinvey}
)

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind around cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NotFound is a shortcut for a KindNotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the HTTP status attached to err, or zero.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNetwork reports failures of the transport itself: no connection or timeout.
func IsNetwork(err error) bool {
	switch KindOf(err) {
	case KindNetworkConnection, KindTimeout:
		return true
	}
	return false
}

// FromStatus builds the error for a non-2xx answer. name is the error name
// reported by the backend and takes precedence over the status mapping.
func FromStatus(status int, name, description, debug string) *Error {
	kind := KindFromName(name)
	if kind == KindUnknown {
		switch status {
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusUnauthorized:
			kind = KindInvalidCredentials
		default:
			kind = KindServer
		}
	}
	if description == "" {
		description = http.StatusText(status)
	}
	return &Error{Kind: kind, Message: description, Debug: debug, StatusCode: status}
}
