// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost factor for password hashing.
//
// Cost 12 trades ~250ms of CPU per hash for brute-force resistance. Raise it
// as hardware improves; existing digests keep their original cost and still
// verify.
const HashCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// Safe for unlimited concurrent use; bcrypt salts internally and the function
// holds no shared state. A failure here is a resource problem, never a weak
// hash — the error must be surfaced, not swallowed.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), HashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// Returns false (never an error) on mismatches and on malformed digests alike.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
