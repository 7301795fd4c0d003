// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-store/internal/utils"
)

func TestSession_LoginAndRevoke(t *testing.T) {
	token, err := utils.GenerateJWTToken("syncd", "user-1", time.Hour, "secret")
	require.NoError(t, err)

	s := New()
	assert.False(t, s.Active(time.Now()))

	require.NoError(t, s.Login(token))
	assert.Equal(t, token, s.Token())
	assert.True(t, s.Active(time.Now()))

	id, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, "user-1", id.UserID)

	s.Revoke()
	assert.Empty(t, s.Token())
	_, ok = s.Identity()
	assert.False(t, ok)
}

func TestSession_Expired(t *testing.T) {
	token, err := utils.GenerateJWTToken("syncd", "user-1", time.Minute, "secret")
	require.NoError(t, err)

	s := New()
	require.NoError(t, s.Login(token))

	assert.False(t, s.Active(time.Now().Add(2*time.Minute)))
}

func TestSession_LoginMalformed(t *testing.T) {
	s := New()
	assert.Error(t, s.Login("garbage"))
	assert.Empty(t, s.Token())
}
