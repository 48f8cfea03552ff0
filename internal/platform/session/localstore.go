// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a [LocalStore] that keeps the session payload in a single file
// on disk. It backs local-fallback deployments of the server binary; tooling
// embedding the transport may supply its own store instead.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the payload, creating parent directories as needed. The file is
// owner-only: the payload is an unverified identity.
func (store *FileStore) Save(payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("session: create state directory: %w", err)
	}
	if err := os.WriteFile(store.path, payload, 0o600); err != nil {
		return fmt.Errorf("session: write state file: %w", err)
	}
	return nil
}

// Load returns the saved payload, or nil when the file is absent or unreadable.
func (store *FileStore) Load() []byte {
	payload, err := os.ReadFile(store.path)
	if err != nil {
		return nil
	}
	return payload
}

// Drop removes the state file. A missing file is already dropped.
func (store *FileStore) Drop() {
	_ = os.Remove(store.path)
}
