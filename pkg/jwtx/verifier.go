package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrTokenType    = errors.New("jwtx: wrong token type")
)

// VerifyOptions captures what a verifier expects of every token.
type VerifyOptions struct {
	// Algorithm is the only accepted alg header value.
	Algorithm string

	// Issuer the token must carry. Empty accepts any.
	Issuer string

	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Verifier checks signatures against a KeySet and validates claims.
type Verifier struct {
	keys *KeySet
	opts VerifyOptions
}

// NewVerifier returns a verifier for tokens signed by keys in ks.
func NewVerifier(ks *KeySet, opts VerifyOptions) *Verifier {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Verifier{keys: ks, opts: opts}
}

// Verify parses raw, checks its signature and standard claims, and requires
// token_type to equal tokenType when tokenType is not empty.
func (v *Verifier) Verify(raw, tokenType string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.opts.Algorithm}),
		// exp and nbf are checked below with our own clock.
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		key, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
		}
		return key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownKID):
		return Claims{}, ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.opts.Now().UTC(), v.opts.Leeway); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateSubject(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateType(tokenType); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
