package encoding

import (
	"errors"
	"strings"
	"testing"
)

func testFields() map[string]any {
	return map[string]any{
		"s":    "scope-1",
		"i":    "5f0c7a52-2b0e-4c55-9d43-8c1a0e6c1f0b",
		"flag": true,
	}
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	_, err := NewEncoder([]byte("short"))
	if err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}

	_, err = NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!"))
	if err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}

	_, err = NewEncoder([]byte("this-key-is-longer-than-thirty-two-bytes"))
	if err != nil {
		t.Fatalf("NewEncoder with long key failed: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	for _, sensitive := range []bool{false, true} {
		name := "signed"
		if sensitive {
			name = "encrypted"
		}
		t.Run(name, func(t *testing.T) {
			token, err := enc.Encode(testFields(), sensitive)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if token == "" {
				t.Fatal("Encoded token is empty")
			}

			got, err := enc.Decode(token, sensitive)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			for k, want := range testFields() {
				if got[k] != want {
					t.Errorf("field %q = %v, want %v", k, got[k], want)
				}
			}
		})
	}
}

func TestSignedTokenShape(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testFields(), false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Count(token, ".") != 1 {
		t.Errorf("signed token should be payload.signature, got %q", token)
	}
}

func TestEncryptedTokensDiffer(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	a, _ := enc.Encode(testFields(), true)
	b, _ := enc.Encode(testFields(), true)
	if a == b {
		t.Error("encrypted tokens should use a fresh nonce")
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testFields(), false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	payload, _, _ := strings.Cut(token, ".")
	other, _ := NewEncoder([]byte("other-key"))
	forged, _ := other.Encode(testFields(), false)
	_, forgedSig, _ := strings.Cut(forged, ".")

	_, err = enc.Decode(payload+"."+forgedSig, false)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testFields(), true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	other, _ := NewEncoder([]byte("other-key"))
	_, err = other.Decode(token, true)
	if !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Expected ErrDecryptFailed, got: %v", err)
	}

	_, err = enc.Decode("AAAA", true)
	if !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Expected ErrDecryptFailed for short ciphertext, got: %v", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	tests := []struct {
		name  string
		token string
	}{
		{"missing separator", "invalidbase64withoutseparator"},
		{"bad payload base64", "!!!.AAAA"},
		{"bad signature base64", "AAAA.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Decode(tt.token, false)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Expected ErrInvalidFormat, got: %v", err)
			}
		})
	}
}

func TestEmptyFields(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(map[string]any{}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := enc.Decode(token, false)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no fields, got %v", got)
	}
}
