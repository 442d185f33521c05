// Package auth provides session tokens, password hashing, and the
// middleware that identifies the calling user.
//
// SESSION FLOW:
// 1. POST /api/register or /api/login verifies credentials and issues a
//    JWT, stored in an HttpOnly cookie.
// 2. On subsequent API calls, middleware reads the cookie, validates the
//    JWT, and puts the userID in the request context.
// 3. Protected handlers read the userID via UserIDFromContext; requests
//    without a valid token get 401 before any handler runs.
//
// WHY JWT?
// JWT is stateless — the server doesn't store session data. Everything
// needed (userID, expiry) is inside the signed token, and the HMAC
// signature means nobody can tamper with it without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a login lasts. A dashboard people glance at a
// few times a day wants a long-lived session, not a 15-minute one.
const SessionTTL = 7 * 24 * time.Hour

const issuer = "wattwise"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify tokens — the same secret must be used
// for both.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production:
// JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user ID travels in the
// standard "sub" (Subject) claim.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by
// tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the userID from
// the "sub" claim.
//
// The jwt library checks the signature, the expiry, and the issuer.
// Passing WithValidMethods pins the algorithm to HS256 — without it an
// attacker could try an algorithm-confusion attack with a token whose
// header claims a different signing method.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
