package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// Pepper returns the secret mixed into every password hash.
func Pepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}

// SetPepper replaces the process pepper. Hashes made under a different
// pepper stop verifying.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// LoadPepper reads the pepper from path, creating the file with a fresh
// random value when it does not exist yet.
func LoadPepper(path string) error {
	if path == "" {
		return errors.New("cryptox: pepper path is empty")
	}
	path = filepath.Clean(path)

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := strings.TrimSpace(string(b))
		if p == "" {
			return fmt.Errorf("cryptox: pepper file %s is empty", path)
		}
		SetPepper(p)
		return nil

	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("cryptox: create pepper dir: %w", err)
		}
		raw := make([]byte, keyLength)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("cryptox: generate pepper: %w", err)
		}
		p := base64.RawURLEncoding.EncodeToString(raw)
		if err := os.WriteFile(path, []byte(p), 0o600); err != nil {
			return fmt.Errorf("cryptox: write pepper: %w", err)
		}
		SetPepper(p)
		return nil

	default:
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}
}
