package encryption

import (
	"bytes"
	"errors"
	"testing"
)

const testKey = "correct horse battery staple"

func TestSealOpen_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("Speaker 0: namaste"),
		[]byte("வணக்கம் / नमस्ते"),
		bytes.Repeat([]byte{0x25, 0x50, 0x44, 0x46}, 4096),
	}
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			s, err := New(Config{Key: testKey, Algorithm: alg})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s.Algorithm() != alg {
				t.Errorf("Algorithm = %q", s.Algorithm())
			}
			for _, p := range payloads {
				sealed, err := s.Seal(p)
				if err != nil {
					t.Fatalf("Seal: %v", err)
				}
				if len(p) > 0 && bytes.Contains(sealed, p) {
					t.Fatal("sealed output contains the plaintext")
				}
				got, err := s.Open(sealed)
				if err != nil {
					t.Fatalf("Open: %v", err)
				}
				if !bytes.Equal(got, p) {
					t.Errorf("round trip = %q, want %q", got, p)
				}
			}
		})
	}
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	s, err := New(Config{Key: testKey})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.Seal([]byte("same"))
	b, _ := s.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("two seals of the same payload should differ")
	}
}

func TestOpen_Rejects(t *testing.T) {
	s, err := New(Config{Key: testKey})
	if err != nil {
		t.Fatal(err)
	}
	other, err := New(Config{Key: testKey + "!"})
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := s.Seal([]byte("transcript"))
	if err != nil {
		t.Fatal(err)
	}
	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff

	if _, err := s.Open(sealed[:4]); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated: %v", err)
	}
	if _, err := s.Open(tampered); err == nil {
		t.Error("tampered ciphertext opened")
	}
	if _, err := other.Open(sealed); err == nil {
		t.Error("wrong key opened the ciphertext")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"default algorithm", Config{Key: testKey, Algorithm: AlgorithmAESGCM}, false},
		{"chacha", Config{Key: testKey, Algorithm: AlgorithmChaCha20}, false},
		{"short key", Config{Key: "short", Algorithm: AlgorithmAESGCM}, true},
		{"unknown algorithm", Config{Key: testKey, Algorithm: "rot13"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without key")
	}
}
