// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bisik/internal/platform/apperr"
	"github.com/taibuivan/bisik/internal/platform/sec"
	"github.com/taibuivan/bisik/internal/users/auth"
)

// fakeDirectory is an in-memory Directory with the same guarded-write
// semantics as the PostgreSQL implementation.
type fakeDirectory struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeDirectory(users ...*auth.User) *fakeDirectory {
	directory := &fakeDirectory{users: map[string]*auth.User{}}
	for _, user := range users {
		directory.users[user.Username] = user
	}
	return directory
}

func (d *fakeDirectory) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[username]
	if !ok {
		return nil, apperr.NotFound("Username")
	}
	copied := *user
	return &copied, nil
}

func (d *fakeDirectory) SetPasswordHash(_ context.Context, username, hash string) (*auth.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[username]
	if !ok {
		return nil, apperr.NotFound("Username")
	}
	if user.HasPassword() {
		return nil, apperr.Conflict("Password is already set for this account")
	}

	user.PasswordHash = hash
	copied := *user
	return &copied, nil
}

func seededUser() *auth.User {
	return &auth.User{
		ID:          "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b",
		Username:    "alice",
		DisplayName: "Alice A.",
	}
}

func provisionedUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := seededUser()
	user.PasswordHash = hash
	return user
}

/*
TestService_CheckUsername routes known usernames by provisioning state and
rejects unknown ones with a terminal NotFound.
*/
func TestService_CheckUsername(t *testing.T) {
	t.Run("unprovisioned_account", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(seededUser()))

		result, err := service.CheckUsername(context.Background(), "alice")
		require.NoError(t, err)

		assert.True(t, result.Exists)
		assert.False(t, result.HasPassword)
		require.NotNil(t, result.User)
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, "Alice A.", result.User.DisplayName)
	})

	t.Run("provisioned_account", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(provisionedUser(t, "secret1")))

		result, err := service.CheckUsername(context.Background(), "alice")
		require.NoError(t, err)

		assert.True(t, result.Exists)
		assert.True(t, result.HasPassword)
	})

	t.Run("unknown_username", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory())

		result, err := service.CheckUsername(context.Background(), "nobody")
		assert.Nil(t, result)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

/*
TestService_Login verifies credential verification, and that every failure
mode collapses into the same Unauthorized answer.
*/
func TestService_Login(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(provisionedUser(t, "secret1")))

		user, err := service.Login(context.Background(), "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("failure_modes_are_indistinguishable", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(
			provisionedUser(t, "secret1"),
			&auth.User{ID: "id-2", Username: "bob", DisplayName: "Bob B."},
		))

		tests := []struct {
			name     string
			username string
			password string
		}{
			{"wrong_password", "alice", "wrong"},
			{"unknown_username", "nobody", "secret1"},
			{"unprovisioned_account", "bob", "secret1"},
			{"empty_password", "alice", ""},
		}

		var messages []string
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user, err := service.Login(context.Background(), tt.username, tt.password)
				assert.Nil(t, user)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "UNAUTHORIZED", ae.Code)
				messages = append(messages, ae.Message)
			})
		}

		// Same message for every mode: no probing signal.
		assert.Len(t, messages, 4)
		for _, message := range messages {
			assert.Equal(t, messages[0], message)
		}
	})
}

/*
TestService_Login_ConcurrentVerify runs many simultaneous logins for the same
username with the correct password and asserts every one succeeds on its own.
The service holds no cross-request state, so no call may observe another.
*/
func TestService_Login_ConcurrentVerify(t *testing.T) {
	service := auth.NewService(newFakeDirectory(provisionedUser(t, "secret1")))

	const workers = 8
	results := make(chan error, workers)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < workers; i++ {
		go func() {
			start.Wait()
			user, err := service.Login(context.Background(), "alice", "secret1")
			if err == nil && user.Username != "alice" {
				err = fmt.Errorf("unexpected identity %q", user.Username)
			}
			results <- err
		}()
	}
	start.Done()

	for i := 0; i < workers; i++ {
		assert.NoError(t, <-results)
	}
}

/*
TestService_SetPassword verifies first-time provisioning: policy checks run
before any Directory contact, the stored value is a verifying bcrypt digest,
and a provisioned account cannot be re-provisioned.
*/
func TestService_SetPassword(t *testing.T) {
	t.Run("provisions_and_returns_public_user", func(t *testing.T) {
		directory := newFakeDirectory(seededUser())
		service := auth.NewService(directory)

		user, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username: "alice",
			Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		stored, err := directory.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$"))
		assert.True(t, sec.CheckPasswordHash("secret1", stored.PasswordHash))

		// The freshly provisioned password logs in.
		_, err = service.Login(context.Background(), "alice", "secret1")
		assert.NoError(t, err)
	})

	t.Run("rejects_weak_password_before_directory", func(t *testing.T) {
		directory := newFakeDirectory(seededUser())
		service := auth.NewService(directory)

		_, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username: "alice",
			Password: "short",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)

		// Nothing was persisted.
		stored, findErr := directory.FindByUsername(context.Background(), "alice")
		require.NoError(t, findErr)
		assert.False(t, stored.HasPassword())
	})

	t.Run("rejects_mismatched_confirmation", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(seededUser()))

		_, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username:        "alice",
			Password:        "secret1",
			ConfirmPassword: "secret2",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})

	t.Run("second_provisioning_conflicts", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory(seededUser()))

		_, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username: "alice",
			Password: "secret1",
		})
		require.NoError(t, err)

		_, err = service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username: "alice",
			Password: "different7",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	t.Run("unknown_username", func(t *testing.T) {
		service := auth.NewService(newFakeDirectory())

		_, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
			Username: "nobody",
			Password: "secret1",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

/*
TestService_SetPassword_ConcurrentProvisioning races two provisioners and
asserts exactly one wins; the loser gets a Conflict and the winner's hash
survives.
*/
func TestService_SetPassword_ConcurrentProvisioning(t *testing.T) {
	directory := newFakeDirectory(seededUser())
	service := auth.NewService(directory)

	results := make(chan error, 2)
	var start sync.WaitGroup
	start.Add(1)

	for _, password := range []string{"password-one", "password-two"} {
		go func(password string) {
			start.Wait()
			_, err := service.SetPassword(context.Background(), auth.SetPasswordInput{
				Username: "alice",
				Password: password,
			})
			results <- err
		}(password)
	}
	start.Done()

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := directory.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, stored.HasPassword())
}
