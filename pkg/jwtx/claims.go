package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services override these from configuration.
const (
	DefaultAccessTokenTTL  = 5 * time.Minute
	DefaultRefreshTokenTTL = 60 * 24 * time.Hour
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens. Subject and
// UserID always hold the same value.
type Claims struct {
	jwt.RegisteredClaims

	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	Handle    string `json:"handle,omitempty"`
}

// NewRefreshClaims builds refresh token claims for a user.
func NewRefreshClaims(userID, handle, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: TokenTypeRefresh,
		UserID:    userID,
		Handle:    handle,
	}
}

// AccessFrom derives access token claims from refresh claims. The access
// token never outlives the refresh token it came from.
func (c Claims) AccessFrom(ttl time.Duration, now time.Time) Claims {
	exp := now.Add(ttl)
	if c.ExpiresAt != nil && c.ExpiresAt.Time.Before(exp) {
		exp = c.ExpiresAt.Time
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			Subject:   c.Subject,
			Audience:  c.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        NewJTI(),
		},
		TokenType: TokenTypeAccess,
		UserID:    c.UserID,
		Handle:    c.Handle,
	}
}

// NewJTI returns a random URL safe identifier for the jti claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the iss claim. An empty expectation accepts any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateType checks the token_type claim. An empty expectation accepts any.
func (c *Claims) ValidateType(expected string) error {
	if expected != "" && c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now, allowing leeway for skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateSubject requires a user reference that agrees with sub.
func (c *Claims) ValidateSubject() error {
	if c.UserID == "" || c.Subject != c.UserID {
		return ErrInvalidClaim
	}
	return nil
}
