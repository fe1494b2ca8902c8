package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		HashIterations:        1000,
		SaltLength:            16,
	}
}

func registerTestUser(t *testing.T, users *UserService, username, password string) int64 {
	t.Helper()
	created, err := users.Create(context.Background(), UserCreateInput{
		Name:     "Ana",
		Email:    username + "@x.com",
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return created.ID
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	cfg := testAuthConfig()
	logger := zap.NewNop()
	users := NewUserService(cfg, repo, nil, logger)
	authSvc := NewAuthService(cfg, repo, logger)

	registerTestUser(t, users, "ana", "s3cret!")

	user, err := authSvc.Authenticate(context.Background(), "ana", "s3cret!")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestAuthService_EnumerationResistance(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	cfg := testAuthConfig()
	logger := zap.NewNop()
	users := NewUserService(cfg, repo, nil, logger)
	authSvc := NewAuthService(cfg, repo, logger)

	registerTestUser(t, users, "real_user", "correct-password")

	// An unknown username and a wrong password must be indistinguishable.
	unknownUser, unknownErr := authSvc.Authenticate(context.Background(), "nobody", "anything")
	wrongPass, wrongErr := authSvc.Authenticate(context.Background(), "real_user", "wrong_password")

	assert.Nil(t, unknownUser)
	assert.NoError(t, unknownErr)
	assert.Nil(t, wrongPass)
	assert.NoError(t, wrongErr)
}

func TestAuthService_MalformedStoredCredential(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	cfg := testAuthConfig()
	logger := zap.NewNop()
	users := NewUserService(cfg, repo, nil, logger)
	authSvc := NewAuthService(cfg, repo, logger)

	id := registerTestUser(t, users, "ana", "s3cret!")

	// Corrupt the stored credential directly.
	broken, ok := repo.stored(id)
	require.True(t, ok)
	broken.PasswordHash = "not-a-credential"
	require.NoError(t, repo.Update(context.Background(), &broken))

	user, err := authSvc.Authenticate(context.Background(), "ana", "s3cret!")
	assert.Nil(t, user)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
}

func TestAuthService_RepositoryFailurePropagates(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.failWith = errors.New("connection refused")
	authSvc := NewAuthService(testAuthConfig(), repo, zap.NewNop())

	_, err := authSvc.Authenticate(context.Background(), "ana", "s3cret!")
	assert.ErrorContains(t, err, "connection refused")
}

func TestAuthService_LoginTokenRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	cfg := testAuthConfig()
	logger := zap.NewNop()
	users := NewUserService(cfg, repo, nil, logger)
	authSvc := NewAuthService(cfg, repo, logger)

	id := registerTestUser(t, users, "ana", "s3cret!")

	user, err := authSvc.Authenticate(context.Background(), "ana", "s3cret!")
	require.NoError(t, err)
	require.NotNil(t, user)

	token, _, err := authSvc.IssueLoginToken(user)
	require.NoError(t, err)

	claims, err := authSvc.ResolveCurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username())
	assert.Equal(t, id, claims.UserID)
}

func TestAuthService_EndToEnd(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	cfg := testAuthConfig()
	logger := zap.NewNop()
	users := NewUserService(cfg, repo, nil, logger)
	authSvc := NewAuthService(cfg, repo, logger)

	created, err := users.Create(context.Background(), UserCreateInput{
		Name:     "Ana",
		Email:    "ana@x.com",
		Username: "ana",
		Password: "s3cret!",
	})
	require.NoError(t, err)

	stored, ok := repo.stored(created.ID)
	require.True(t, ok)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)

	user, err := authSvc.Authenticate(context.Background(), "ana", "s3cret!")
	require.NoError(t, err)
	require.NotNil(t, user)

	token, _, err := authSvc.IssueLoginToken(user)
	require.NoError(t, err)

	claims, err := authSvc.ResolveCurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username())
	assert.Equal(t, created.ID, claims.UserID)

	mismatch, err := authSvc.Authenticate(context.Background(), "ana", "wrong")
	require.NoError(t, err)
	assert.Nil(t, mismatch)
}
