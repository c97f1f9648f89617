package builtin

import (
	"bytes"
	"errors"
	"testing"
)

var testKey = []byte("32-byte-key-for-aes-256-encrypt!")

func TestAES_RoundTrip(t *testing.T) {
	enc, err := AES(testKey)
	if err != nil {
		t.Fatalf("AES() error: %v", err)
	}

	plaintext := []byte("hello, world!")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if bytes.Equal(plaintext, ciphertext) {
		t.Error("ciphertext should differ from plaintext")
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(plaintext, decrypted) {
		t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
	}
}

func TestAES_InvalidKeySize(t *testing.T) {
	if _, err := AES([]byte("short")); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("AES(short) error = %v, want ErrInvalidKeySize", err)
	}
}

func TestAES_DifferentNonce(t *testing.T) {
	enc, _ := AES(testKey)

	c1, _ := enc.Encrypt([]byte("hello"))
	c2, _ := enc.Encrypt([]byte("hello"))
	if bytes.Equal(c1, c2) {
		t.Error("same plaintext should produce different ciphertext (random nonce)")
	}
}

func TestAES_Short(t *testing.T) {
	enc, _ := AES(testKey)
	if _, err := enc.Decrypt([]byte{1, 2}); !errors.Is(err, ErrCiphertextShort) {
		t.Errorf("Decrypt(short) error = %v, want ErrCiphertextShort", err)
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	enc, err := Envelope(testKey)
	if err != nil {
		t.Fatalf("Envelope() error: %v", err)
	}

	plaintext := []byte("sensitive")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(plaintext, decrypted) {
		t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
	}
}

func TestEnvelope_WrongKey(t *testing.T) {
	a, _ := Envelope(testKey)
	b, _ := Envelope([]byte("another-32-byte-key-for-aes-256!"))

	ciphertext, _ := a.Encrypt([]byte("sensitive"))
	if _, err := b.Decrypt(ciphertext); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt(wrong key) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestEncryptDecrypt_Transformers(t *testing.T) {
	enc, _ := AES(testKey)
	seal, open := Encrypt(enc), Decrypt(enc)

	sealed, err := seal("4111111111111111")
	if err != nil {
		t.Fatalf("seal() error: %v", err)
	}
	if _, ok := sealed.(string); !ok {
		t.Fatalf("seal() = %T, want string", sealed)
	}

	plain, err := open(sealed)
	if err != nil {
		t.Fatalf("open() error: %v", err)
	}
	if plain != "4111111111111111" {
		t.Errorf("open() = %v", plain)
	}
}

func TestDecrypt_Invalid(t *testing.T) {
	enc, _ := AES(testKey)
	open := Decrypt(enc)

	if _, err := open("!!not base64!!"); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("open(bad base64) error = %v, want ErrDecryptionFailed", err)
	}
	if _, err := open(12); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("open(12) error = %v, want ErrUnsupportedValue", err)
	}
}
