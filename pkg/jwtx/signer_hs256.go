package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256SecretSize is the smallest accepted HMAC secret in bytes.
const MinHS256SecretSize = 32

// HS256Signer signs with a shared HMAC secret. Tokens it issues can only be
// verified by holders of the same secret, so it publishes no JWK.
type HS256Signer struct {
	kid    string
	secret []byte
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	s := &HS256Signer{kid: kid, secret: append([]byte(nil), secret...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string            { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string            { return s.kid }
func (s *HS256Signer) VerificationKey() any   { return s.secret }
func (s *HS256Signer) PublicJWK() (JWK, bool) { return JWK{}, false }

func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.secret)
}

func (s *HS256Signer) Validate() error {
	if len(s.secret) < MinHS256SecretSize {
		return errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return nil
}
