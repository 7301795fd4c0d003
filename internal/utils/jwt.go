// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the sync store needs from a user token.
type TokenClaims struct {
	UserID    string
	ExpiresAt time.Time
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT for userID. It is used
// by the dev backend tooling and by tests.
func GenerateJWTToken(issuer, userID string, tokenDuration time.Duration, signKey string) (string, error) {
	if userID == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateAndParseJWTToken verifies the signature and expiry of tokenString
// and returns its claims.
func ValidateAndParseJWTToken(tokenString, tokenSignKey string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	return claimsOf(token)
}

// ParseUnverifiedJWT reads the claims of tokenString without checking its
// signature. The client uses it to learn who the session belongs to; the
// backend stays the authority on validity.
func ParseUnverifiedJWT(tokenString string) (TokenClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error occurred parsing token: %w", err)
	}

	return claimsOf(token)
}

func claimsOf(token *jwt.Token) (TokenClaims, error) {
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if subject == "" {
		return TokenClaims{}, errors.New("empty subject error")
	}

	claims := TokenClaims{UserID: subject}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <t>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
