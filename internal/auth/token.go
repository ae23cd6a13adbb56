// Package auth implements stateless identity: signed, time-limited access
// tokens and one-way password hashing. Tokens are plain HS256 JWTs carrying
// the registered `sub` and `exp` claims; nothing is persisted and nothing is
// revocable before expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window applied when Issue is called
// without an explicit TTL.
const DefaultTokenTTL = 30 * time.Minute

// ErrInvalidToken is the single failure outcome of Verify. A forged
// signature, a malformed token, and an expired token are indistinguishable
// to callers so that the API never acts as an oracle for which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies HS256-signed access tokens.
//
// The zero value is not usable; construct with NewTokenService. Now is
// injectable so tests can control the clock.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewTokenService returns a TokenService signing with secret. A ttl <= 0
// falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, Now: time.Now}
}

// Issue encodes subject and an absolute expiry (now + configured TTL) into
// a signed token string.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL is Issue with an explicit validity window. A ttl <= 0 falls
// back to the configured default.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature integrity, structure, and expiry, and returns the
// embedded subject. Every failure mode collapses into ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
