// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUIDGenerator produces identifiers for trace ids and locally created
// documents.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUID string.
func (g *UUIDGenerator) Generate() string {
	return g.newV7().String()
}

// ObjectID returns a 24-character lowercase hex id. The leading bytes are
// the v7 timestamp, so ids created later sort later.
func (g *UUIDGenerator) ObjectID() string {
	id := g.newV7()
	return hex.EncodeToString(id[:12])
}

func (g *UUIDGenerator) newV7() uuid.UUID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v7
}
