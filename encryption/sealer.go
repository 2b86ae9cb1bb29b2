package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrTruncated is returned by Open for input shorter than a nonce.
var ErrTruncated = errors.New("encryption: ciphertext too short")

// Sealer encrypts and authenticates byte payloads.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
	Algorithm() Algorithm
}

type aeadSealer struct {
	aead cipher.AEAD
	alg  Algorithm
}

// New builds the Sealer for cfg. cfg must be enabled.
func New(cfg Config) (Sealer, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled() {
		return nil, fmt.Errorf("encryption: no key configured")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key := sha256.Sum256([]byte(cfg.Key))

	var (
		aead cipher.AEAD
		err  error
	)
	switch cfg.Algorithm {
	case AlgorithmChaCha20:
		aead, err = chacha20poly1305.New(key[:])
	default:
		var block cipher.Block
		block, err = aes.NewCipher(key[:])
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: %s: %w", cfg.Algorithm, err)
	}
	return &aeadSealer{aead: aead, alg: cfg.Algorithm}, nil
}

func (s *aeadSealer) Algorithm() Algorithm { return s.alg }

// Seal returns nonce || ciphertext.
func (s *aeadSealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("encryption: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *aeadSealer) Open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrTruncated
	}
	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("encryption: open: %w", err)
	}
	return plaintext, nil
}
