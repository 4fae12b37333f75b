package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrBadPassword is returned when the supplied password does not match the
// configured access password.
var ErrBadPassword = errors.New("invalid password")

// ErrBadToken is returned for expired, malformed, or forged session tokens.
var ErrBadToken = errors.New("invalid session token")

// Gate implements the dashboard password gate: one shared password in,
// a signed session token out.
type Gate struct {
	password   string
	signingKey []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// NewGate creates a gate for the configured password. The HMAC signing key
// is derived from the password so a restart with the same secret keeps
// existing sessions valid.
func NewGate(password string, sessionTTL time.Duration) *Gate {
	key := sha256.Sum256([]byte("courtvision-session:" + password))
	return &Gate{
		password:   password,
		signingKey: key[:],
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Login checks the password and mints a session token carrying a fresh
// session id.
func (g *Gate) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return "", ErrBadPassword
	}

	now := g.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.sessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify validates a session token and returns its session id.
func (g *Gate) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.signingKey, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return "", ErrBadToken
	}
	return claims.ID, nil
}
