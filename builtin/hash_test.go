package builtin

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSHA256(t *testing.T) {
	got, err := SHA256().Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}
}

func TestSHA512_Length(t *testing.T) {
	got, err := SHA512().Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if len(got) != 128 {
		t.Errorf("len(Hash()) = %d, want 128", len(got))
	}
}

func TestArgon2_Format(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}
	h := Argon2(params)

	a, err := h.Hash([]byte("password"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if !strings.HasPrefix(a, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("Hash() = %q, unexpected prefix", a)
	}

	b, _ := h.Hash([]byte("password"))
	if a == b {
		t.Error("same password should produce different hashes (random salt)")
	}
}

func TestDefaultArgon2Params(t *testing.T) {
	p := DefaultArgon2Params()
	if p.Time != 1 || p.Memory != 64*1024 || p.Threads != 4 || p.KeyLen != 32 || p.SaltLen != 16 {
		t.Errorf("DefaultArgon2Params() = %+v", p)
	}
}

func TestBcrypt_Verifies(t *testing.T) {
	digest, err := Bcrypt(BcryptMinCost).Hash([]byte("password"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte("password")); err != nil {
		t.Errorf("CompareHashAndPassword() error: %v", err)
	}
}

func TestHash_Transformer(t *testing.T) {
	fn := Hash(SHA256())

	got, err := fn(42)
	if err != nil {
		t.Fatalf("fn(42) error: %v", err)
	}
	want, _ := SHA256().Hash([]byte("42"))
	if got != want {
		t.Errorf("fn(42) = %v, want %v", got, want)
	}

	if got, err := fn(nil); err != nil || got != nil {
		t.Errorf("fn(nil) = %v, %v; want nil, nil", got, err)
	}
}
