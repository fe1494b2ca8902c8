package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("passthrough", func(t *testing.T) {
		err := NewConflict("username already taken", nil)
		mapped := ToDomainError(err)
		assert.Equal(t, "CONFLICT", mapped.Code)
		assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("create user: %w", NewUnauthorized("invalid token"))
		mapped := ToDomainError(err)
		assert.Equal(t, "UNAUTHORIZED", mapped.Code)
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	})

	t.Run("generic becomes internal", func(t *testing.T) {
		mapped := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
		assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	})
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, domainErr.Error(), "connection refused")
}
