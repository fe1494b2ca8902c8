package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// AuthService coordinates credential verification and token issuance.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   auth.NewHasher(cfg.HashIterations, cfg.SaltLength),
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:   logger,
	}
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password both yield (nil, nil) so the outcome never reveals whether
// the account exists. A stored credential that fails to parse is an integrity
// fault, surfaced as a server error rather than a mismatch.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored credential failed to parse", zap.Int64("user_id", user.ID))
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

// IssueLoginToken mints a bearer token carrying the record's identity claims.
func (s *AuthService) IssueLoginToken(user *domain.User) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(user.Username, user.ID)
}

// ResolveCurrentUser is the gate protected routes pass through: it verifies
// a presented token and returns its identity claims. The token is
// self-contained, so no repository lookup happens here.
func (s *AuthService) ResolveCurrentUser(token string) (*auth.Claims, error) {
	return s.tokenMgr.ParseToken(token)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
