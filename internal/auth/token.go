package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Callers on the HTTP surface must collapse all
// of them into a single unauthorized response; the distinction exists for
// diagnostics and tests.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingClaims    = errors.New("token claims missing")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims describes the JWT payload: subject username under the registered
// "sub" claim plus the numeric user id.
type Claims struct {
	UserID int64 `json:"id_user"`
	jwt.RegisteredClaims
}

// Username returns the subject username carried by the token.
func (c *Claims) Username() string {
	return c.Subject
}

// TokenManager handles issuing and validating JWT tokens. The secret and
// lifetime are fixed at construction and shared across requests without
// locking.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// GenerateToken builds and signs an HS256 JWT for the given identity. The
// token is stateless; nothing about it is persisted server-side.
func (tm *TokenManager) GenerateToken(username string, userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a presented token and returns its claims. Checks run
// in a fixed order so each failure kind stays distinguishable: structure,
// signature, claim presence, expiry. Expiry is checked here rather than by
// the library so a token with bad claims reports the earlier failure.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrMissingClaims
	}

	// A token that cannot prove it is unexpired is rejected.
	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
