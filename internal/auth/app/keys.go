package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/conduit/pkg/cryptox"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
)

// InitAuthKeys builds the KeyManager for the configured algorithm.
//
// HS256 signs with AUTH_SECRET_KEY. Without one a random secret is
// generated, so tokens stop verifying on restart and across replicas.
// Config.Validate refuses that in production.
// EdDSA keys are always generated in memory and published through JWKS.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		NumKeys:   cfg.NumKeys,
		Leeway:    cfg.ClockLeeway,
	}

	if cfg.Algorithm == jwtx.AlgorithmHS256 {
		if cfg.SecretKey != "" {
			opts.Secret = []byte(cfg.SecretKey)
		} else {
			secret, err := cryptox.GenerateSecret(jwtx.MinHS256SecretSize)
			if err != nil {
				return nil, fmt.Errorf("generate HS256 secret: %w", err)
			}
			opts.Secret = secret
			logger.Warn("AUTH_SECRET_KEY not set, using a random secret; tokens will not survive a restart")
		}
	}

	km, err := jwtx.NewKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	logger.Info("signing keys ready",
		"algorithm", km.Algorithm(),
		"num_keys", km.NumSigners(),
		"issuer", cfg.Issuer,
	)
	if km.Algorithm() == jwtx.AlgorithmEdDSA {
		logger.Warn("ephemeral signing keys; all existing tokens are now invalid")
	}
	return km, nil
}
