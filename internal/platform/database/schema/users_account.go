// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the authoritative table and column names for the
// Bisik database. Stores that build queries dynamically reference these
// definitions instead of repeating string literals.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	DisplayName:  "displayname",
	PasswordHash: "passwordhash",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.DisplayName, t.PasswordHash, t.CreatedAt, t.UpdatedAt,
	}
}
