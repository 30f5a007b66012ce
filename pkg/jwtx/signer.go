package jwtx

// Signer signs claims with one key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)

	// VerificationKey is the key a verifier needs for tokens from this
	// signer: the public key for asymmetric algorithms, the secret for HMAC.
	VerificationKey() any

	// PublicJWK returns the key for publication in a JWKS. Symmetric
	// signers return false.
	PublicJWK() (JWK, bool)

	Validate() error
}

// NewSignerEdDSA creates an EdDSA signer from a PKCS8 PEM Ed25519 key.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}

// NewSignerHS256 creates an HMAC-SHA256 signer from a shared secret.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}
