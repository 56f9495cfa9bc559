// Package token signs and verifies browser session tokens.
//
// Tokens are compact HS256 JWTs carrying only the calculator session id.
// They gate nothing sensitive; signing exists so a tampered cookie cannot
// address another visitor's session.
package token

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "reckon.space"
	audience = "web"
)

// ErrInvalidToken indicates a token that failed signature or claim checks.
var ErrInvalidToken = errors.New("invalid session token")

// Signer issues and verifies session tokens with a shared HMAC key.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// NewSigner creates a signer from a hex-encoded HMAC key.
func NewSigner(hexKey string, ttl time.Duration) (*Signer, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("decode session key: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("session key must be at least 32 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Signer{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given session id.
func (s *Signer) Issue(sessionID string) (string, error) {
	if s == nil {
		return "", errors.New("signer is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", errors.New("session id is required")
	}
	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks a token and returns the session id it carries.
func (s *Signer) Verify(tokenValue string) (string, error) {
	if s == nil {
		return "", errors.New("signer is not configured")
	}
	tokenValue = strings.TrimSpace(tokenValue)
	if tokenValue == "" {
		return "", ErrInvalidToken
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenValue, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sessionID := strings.TrimSpace(claims.SessionID)
	if sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}
