// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Directory Access

// Directory defines the data access contract for the external user-record
// store. It is the sole serialization point for durable identity state; the
// auth core itself holds no cross-request mutable state.
type Directory interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		SetPasswordHash provisions the password hash for a first-time login.

		The write is guarded: it only succeeds while the stored hash is still
		absent. Of two concurrent provisioners, exactly one wins; the loser
		receives apperr.Conflict. A hash, once set, is never replaced through
		this operation.

		Parameters:
		  - context: context.Context
		  - username: string
		  - hash: string

		Returns:
		  - *User: Updated entity
		  - error: apperr.NotFound, apperr.Conflict, or persistence failures
	*/
	SetPasswordHash(context context.Context, username string, hash string) (*User, error)
}
