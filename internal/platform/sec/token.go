// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via constructors.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the identity payload embedded inside a session token.
//
// # Why so small?
//
// The token is the whole session — nothing is stored server-side. Embedding
// only the public identity triple keeps the cookie compact and leaves nothing
// sensitive to leak. JSON keys match the wire contract of the login endpoints.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID      string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
}

// TokenCodec signs and verifies compact, tamper-evident session tokens
// (HS256 over a server-held secret).
//
// # Determinism
//
// Given identical claims, secret, and clock, Sign is deterministic. The clock
// is injectable so tests can pin expiration behavior exactly.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the codec's wall clock. Test-only in practice.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) { codec.now = now }
}

// NewTokenCodec creates a codec bound to a signing secret.
//
// An empty secret is a configuration error, never a default: every token it
// signed would be forgeable.
func NewTokenCodec(secret, issuer string, ttl time.Duration, options ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("sec: session signing key must not be empty")
	}

	codec := &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}
	return codec, nil
}

// Sign embeds the identity claims plus an expiration of now+TTL and returns
// the signed token string. The signature covers the exact serialized payload,
// claims and expiration alike.
func (codec *TokenCodec) Sign(userID, username, displayName string) (string, error) {
	currentTime := codec.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.ttl)),
		},
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a token string.
//
// It returns nil on ANY failure — malformed structure, signature mismatch,
// expiration, rotated secret. Callers treat nil uniformly as
// "unauthenticated"; the reason is deliberately never distinguished, so a
// caller (or an attacker driving one) cannot probe why a token was rejected.
func (codec *TokenCodec) Verify(tokenString string) *SessionClaims {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
	)

	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil
	}

	return claims
}

// TTL reports the configured token lifetime.
func (codec *TokenCodec) TTL() time.Duration {
	return codec.ttl
}
