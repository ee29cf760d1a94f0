package vault

import (
	"errors"
	"strings"
	"testing"
)

func TestVault_EncryptDecryptRoundTrip(t *testing.T) {
	v := New(2)
	cases := []string{
		"Eurico Conceição",
		"user@example.com",
		"",
		"açúcar & café ☕",
		strings.Repeat("x", 4096),
	}
	for _, plaintext := range cases {
		blob, err := v.Encrypt(plaintext, "senha-secreta")
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}
		got, err := v.Decrypt(blob, "senha-secreta")
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestVault_DecryptWrongPassword(t *testing.T) {
	v := New(2)
	blob, err := v.Encrypt("dado sensible", "password-uno")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := v.Decrypt(blob, "password-dos"); !errors.Is(err, ErrCrypto) {
		t.Fatalf("expected ErrCrypto, got %v", err)
	}
}

func TestVault_DecryptCorruptedBlob(t *testing.T) {
	v := New(2)

	if _, err := v.Decrypt("not-base64!!!", "pw"); !errors.Is(err, ErrCrypto) {
		t.Fatalf("expected ErrCrypto for invalid base64, got %v", err)
	}
	if _, err := v.Decrypt("c2hvcnQ=", "pw"); !errors.Is(err, ErrCrypto) {
		t.Fatalf("expected ErrCrypto for short blob, got %v", err)
	}

	blob, err := v.Encrypt("dato", "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	raw := []byte(blob)
	raw[len(raw)-5] ^= 'x'
	if _, err := v.Decrypt(string(raw), "pw"); !errors.Is(err, ErrCrypto) {
		t.Fatalf("expected ErrCrypto for tampered blob, got %v", err)
	}
}

func TestVault_EncryptProducesFreshBlobs(t *testing.T) {
	v := New(2)
	first, err := v.Encrypt("mismo texto", "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	second, err := v.Encrypt("mismo texto", "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if first == second {
		t.Fatalf("expected fresh salt/nonce per call, got identical blobs")
	}
}

func TestVault_Digest(t *testing.T) {
	v := New(1)
	if v.Digest("a@b.com") != v.Digest("a@b.com") {
		t.Fatalf("digest must be deterministic")
	}
	if v.Digest("a@b.com") == v.Digest("b@a.com") {
		t.Fatalf("distinct inputs must not collide")
	}
	if len(v.Digest("x")) != 64 {
		t.Fatalf("expected sha-256 hex digest")
	}
}
