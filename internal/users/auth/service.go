// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Auth flow controller.

It orchestrates the three-step login ritual against the external Directory:

  - IDENTIFY: resolve a username into a public summary and route the client
    to provisioning (no hash yet) or verification (hash present).
  - PROVISION: validate and hash a first-time password, persist it.
  - VERIFY: compare a presented password against the stored digest.

# Review Process

This service is critical for security. Any changes to hashing, provisioning,
or login logic must be reviewed carefully.
*/

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/internal/platform/sec"
	"github.com/taibuivan/bisik/internal/platform/validate"
)

// Service implements the authentication flow use cases.
//
// It is stateless across requests: every durable fact lives in the Directory,
// so the service is safe under unlimited concurrent invocations.
type Service struct {
	directory Directory
}

// NewService constructs a new [Service] with its Directory dependency.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// # Identify

// IdentifyResult is the outcome of the IDENTIFY step.
type IdentifyResult struct {
	Exists      bool        `json:"exists"`
	HasPassword bool        `json:"hasPassword"`
	User        *PublicUser `json:"user"`
}

/*
CheckUsername resolves a username into its routing decision.

Description: IDENTIFY step. An unknown username is a terminal NotFound — it
never silently falls through to provisioning. The response shape is symmetric
for both routes; only HasPassword tells them apart.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *IdentifyResult: Public summary plus the provisioning/verification route
  - err: apperr.NotFound or storage failures
*/
func (service *Service) CheckUsername(context context.Context, username string) (*IdentifyResult, error) {
	user, err := service.directory.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	return &IdentifyResult{
		Exists:      true,
		HasPassword: user.HasPassword(),
		User:        user.Public(),
	}, nil
}

// # Verify

/*
Login validates user credentials (VERIFY step).

Description: Performs constant-structure password comparison against the
stored digest. Unknown usernames, unprovisioned accounts, and wrong passwords
all collapse into the same Unauthorized answer to keep the response symmetric.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *PublicUser: Identity summary for session establishment
  - err: apperr.Unauthorized or storage failures
*/
func (service *Service) Login(context context.Context, username, password string) (*PublicUser, error) {
	user, err := service.directory.FindByUsername(context, username)

	// Generic message for every failure mode to prevent probing.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	if !user.HasPassword() {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	return user.Public(), nil
}

// # Provision

// SetPasswordInput holds the data for first-time password provisioning.
//
// ConfirmPassword may be empty when the client performed the match check
// itself; when present it is enforced here as well.
type SetPasswordInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

/*
SetPassword provisions a first-time password (PROVISION step).

Description: Validates the password policy BEFORE any Directory contact,
hashes via bcrypt, and persists through the Directory's guarded write. The
guard resolves the concurrent-provisioning race: the second writer receives
a Conflict instead of overwriting the first hash.

Parameters:
  - context: context.Context
  - input: SetPasswordInput

Returns:
  - *PublicUser: Updated identity summary for session establishment
  - err: Validation, NotFound, Conflict, or internal failures
*/
func (service *Service) SetPassword(context context.Context, input SetPasswordInput) (*PublicUser, error) {

	// Policy checks happen before the Directory is ever touched.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if input.ConfirmPassword != "" {
		validator.Equals(FieldConfirmPassword, input.ConfirmPassword, input.Password, "Passwords do not match")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Cost 12 per the platform policy;
	// a hashing failure is surfaced, never downgraded to a weaker digest.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user, err := service.directory.SetPasswordHash(context, input.Username, hashedPassword)
	if err != nil {
		return nil, err
	}

	return user.Public(), nil
}
