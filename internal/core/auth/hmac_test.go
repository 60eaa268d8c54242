package auth

import (
	"strings"
	"testing"
)

const (
	testSecretID = "0123456789abcdef0123456789abcdef"
	testRandom   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func TestParseAPIKey(t *testing.T) {
	validKey := FormatAPIKey(testSecretID, testRandom)

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid key", validKey, nil},
		{"empty", "", ErrInvalidKeyFormat},
		{"wrong prefix", "tk-v1-" + testSecretID + "-" + testRandom, ErrInvalidKeyFormat},
		{"wrong version", "hq-v2-" + testSecretID + "-" + testRandom, ErrInvalidKeyFormat},
		{"short secret_id", "hq-v1-abc-" + testRandom, ErrInvalidKeyFormat},
		{"short random", "hq-v1-" + testSecretID + "-abc", ErrInvalidKeyFormat},
		{"uppercase hex rejected", "hq-v1-" + strings.ToUpper(testSecretID) + "-" + testRandom, ErrInvalidKeyFormat},
		{"extra separator", validKey + "-x", ErrInvalidKeyFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secretID, randomData, err := ParseAPIKey(tt.key)
			if err != tt.wantErr {
				t.Fatalf("ParseAPIKey() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				if secretID != testSecretID {
					t.Errorf("secretID = %s", secretID)
				}
				if randomData != testRandom {
					t.Errorf("randomData = %s", randomData)
				}
			}
		})
	}
}

func TestFormatAPIKey_Length(t *testing.T) {
	key := FormatAPIKey(testSecretID, testRandom)
	if len(key) != 102 {
		t.Errorf("key length = %d, want 102", len(key))
	}
}

func TestComputeHMAC_Deterministic(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	key := FormatAPIKey(testSecretID, testRandom)

	a := ComputeHMAC(secret, key)
	b := ComputeHMAC(secret, key)
	if !VerifyHMAC(a, b) {
		t.Errorf("same secret and key produced different HMACs")
	}
	if len(a) != 32 {
		t.Errorf("HMAC-SHA256 length = %d, want 32", len(a))
	}

	other := ComputeHMAC([]byte("another-secret-another-secret-00"), key)
	if VerifyHMAC(a, other) {
		t.Errorf("different secrets verified equal")
	}
}
