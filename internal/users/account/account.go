// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package account exposes the public member directory.
//
// The directory is the recipient picker of the platform: a read-only listing
// of every seeded account, stripped to the shareable identity triple. Writes
// happen elsewhere (administrative seeding, auth provisioning), so this
// package is a pure query surface and a natural fit for caching.
package account

// Summary is one directory entry: the public identity triple.
type Summary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
}
