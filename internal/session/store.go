// AngelaMos | 2026
// store.go

package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/config"
	"github.com/skadri1601/TradeSignal-sub000/internal/core"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Store persists the token pair to a single encrypted file. Absence of
// the file means logged out. Only the session manager writes it.
type Store struct {
	path       string
	passphrase string
}

func NewStore(cfg config.StorageConfig) *Store {
	passphrase := cfg.Passphrase
	if passphrase == "" {
		// Machine-local fallback so a bare config still encrypts at
		// rest. Not a defense against an attacker with local access.
		passphrase = "tradesignal:" + cfg.Path
	}

	return &Store{
		path:       cfg.Path,
		passphrase: passphrase,
	}
}

// Load returns the persisted token pair, or (nil, nil) when no pair is
// stored.
func (s *Store) Load() (*auth.TokenPair, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token store: %w", err)
	}

	if len(raw) < saltLength+nonceLength+secretbox.Overhead {
		return nil, core.ErrStoreCorrupt
	}

	var salt [saltLength]byte
	copy(salt[:], raw[:saltLength])

	var nonce [nonceLength]byte
	copy(nonce[:], raw[saltLength:saltLength+nonceLength])

	key := s.deriveKey(salt[:])

	plaintext, ok := secretbox.Open(
		nil,
		raw[saltLength+nonceLength:],
		&nonce,
		&key,
	)
	if !ok {
		return nil, core.ErrStoreDecrypt
	}

	var tokens auth.TokenPair
	if err := json.Unmarshal(plaintext, &tokens); err != nil {
		return nil, fmt.Errorf("decode token store: %w", core.ErrStoreCorrupt)
	}

	if tokens.IsZero() {
		return nil, nil
	}

	return &tokens, nil
}

func (s *Store) Save(tokens *auth.TokenPair) error {
	plaintext, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	var salt [saltLength]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	key := s.deriveKey(salt[:])

	sealed := secretbox.Seal(nil, plaintext, &nonce, &key)

	out := make([]byte, 0, saltLength+nonceLength+len(sealed))
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = append(out, sealed...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	if err := os.WriteFile(s.path, out, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}

	return nil
}

// Clear removes the persisted pair. Missing file is not an error;
// logout must be idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token store: %w", err)
	}
	return nil
}

func (s *Store) deriveKey(salt []byte) [keyLength]byte {
	derived := argon2.IDKey(
		[]byte(s.passphrase),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		keyLength,
	)

	var key [keyLength]byte
	copy(key[:], derived)
	return key
}
