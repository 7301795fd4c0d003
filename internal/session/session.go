// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the identity the client acts as. A session is
// revoked when the backend rejects its token; requests then fall back to
// app credentials.
package session

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-store/internal/utils"
)

// Identity is the user a session token was issued for.
type Identity struct {
	UserID    string
	ExpiresAt time.Time
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	token    string
	identity Identity
}

// New returns an inactive session.
func New() *Session {
	return &Session{}
}

// Login activates token. The token is decoded without verification only to
// learn the identity.
func (s *Session) Login(token string) error {
	claims, err := utils.ParseUnverifiedJWT(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = Identity{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt}
	return nil
}

// Token returns the active token, or "" when there is none.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns who the session belongs to. ok is false when no
// session is active.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.token != ""
}

// Active reports whether a token is held and not yet expired at now.
func (s *Session) Active(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	return s.identity.ExpiresAt.IsZero() || now.Before(s.identity.ExpiresAt)
}

// Revoke forgets the token.
func (s *Session) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = Identity{}
}
