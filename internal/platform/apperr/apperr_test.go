// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bisik/internal/platform/apperr"
)

/*
TestTaxonomy verifies each constructor maps to its code and HTTP status.
*/
func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		code       string
		httpStatus int
	}{
		{"not_found", apperr.NotFound("User"), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("Invalid username or password"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"conflict", apperr.Conflict("Already set"), "CONFLICT", http.StatusConflict},
		{"validation", apperr.ValidationError("Validation failed"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"internal", apperr.Internal(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

/*
TestInternal_HidesCause verifies the internal cause never reaches the
client-facing message but stays reachable for logging.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("SELECT exploded")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "SELECT")
	assert.True(t, errors.Is(err, cause))
}

/*
TestAs verifies extraction through wrapped chains.
*/
func TestAs(t *testing.T) {
	inner := apperr.NotFound("Username")
	wrapped := fmt.Errorf("handler: %w", inner)

	extracted := apperr.As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, "NOT_FOUND", extracted.Code)

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.True(t, apperr.IsAppError(wrapped))
	assert.False(t, apperr.IsAppError(errors.New("plain")))
}
