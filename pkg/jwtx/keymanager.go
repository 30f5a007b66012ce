package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aussiebroadwan/conduit/pkg/cryptox"
)

// Supported signing algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmEdDSA = "EdDSA"
)

// KeyManager owns the signing keys of an issuer and the verifier for the
// tokens they produce.
type KeyManager struct {
	Verifier *Verifier
	KeySet   *KeySet

	algorithm string
	signers   []Signer
}

// KeyManagerOptions configures NewKeyManager.
type KeyManagerOptions struct {
	// Algorithm is HS256 or EdDSA.
	Algorithm string

	// Issuer is stamped into and required of every token.
	Issuer string

	// Secret is the HMAC key for HS256. Ignored for EdDSA.
	Secret []byte

	// NumKeys is how many ephemeral EdDSA keys to generate, between 1 and
	// 10. Defaults to 1. HS256 always uses a single key.
	NumKeys int

	// Leeway tolerates clock skew during verification.
	Leeway time.Duration
}

// NewKeyManager builds signers for opts.Algorithm. EdDSA keys are generated
// in memory and vanish on restart, so outstanding tokens stop verifying.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: issuer is required")
	}

	var signers []Signer
	switch opts.Algorithm {
	case AlgorithmHS256:
		s, err := NewSignerHS256("hs256-0", opts.Secret)
		if err != nil {
			return nil, err
		}
		signers = append(signers, s)

	case AlgorithmEdDSA:
		n := min(max(opts.NumKeys, 1), 10)
		for i := range n {
			kid, err := newKeyID()
			if err != nil {
				return nil, err
			}
			pemKey, err := cryptox.GenerateEd25519Key()
			if err != nil {
				return nil, err
			}
			s, err := NewSignerEdDSA(kid, pemKey)
			if err != nil {
				return nil, fmt.Errorf("jwtx: signer %d: %w", i+1, err)
			}
			signers = append(signers, s)
		}

	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: HS256, EdDSA)", opts.Algorithm)
	}

	ks := NewKeySet()
	for _, s := range signers {
		if err := ks.AddSigner(s); err != nil {
			return nil, err
		}
	}

	return &KeyManager{
		Verifier: NewVerifier(ks, VerifyOptions{
			Algorithm: opts.Algorithm,
			Issuer:    opts.Issuer,
			Leeway:    opts.Leeway,
		}),
		KeySet:    ks,
		algorithm: opts.Algorithm,
		signers:   signers,
	}, nil
}

func (km *KeyManager) Algorithm() string { return km.algorithm }

func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// NumSigners returns how many keys are used for signing.
func (km *KeyManager) NumSigners() int { return len(km.signers) }

// GetSigner picks one of the signing keys at random. It returns nil when the
// manager has no keys.
func (km *KeyManager) GetSigner() Signer {
	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

func newKeyID() (string, error) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("jwtx: key id: %w", err)
	}
	return "conduit-" + tok, nil
}
