// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session establishment layer.

It defines the core domain entity (User) and the three-step login ritual:
identify a username, then either provision a first password or verify an
existing one, and finally establish a session.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Bisik platform.
//
// Records are seeded by an administrator; this subsystem never creates them.
// PasswordHash stays empty until the member's first successful login
// provisions it, and once set it is never cleared here.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"name"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// HasPassword reports whether the account has completed first-time
// password provisioning.
func (user *User) HasPassword() bool {
	return user.PasswordHash != ""
}

// PublicUser is the identity triple safe to expose to any caller.
//
// JSON keys match the session token claims and the login wire contract.
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
}

// Public strips the user down to its shareable summary.
func (user *User) Public() *PublicUser {
	return &PublicUser{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldUser            = "user"
	FieldMessage         = "message"
)

// MinPasswordLength is the provisioning floor for new passwords.
const MinPasswordLength = 6
