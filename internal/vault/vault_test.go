package vault

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 32 ASCII zeros, the key shape used by the old Fernet storage.
const testKey = "MDAwMDAwMDAwMDAwMDAwMDAwMDAwMDAwMDAwMDAwMDA="

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := FromEncodedKey(testKey)
	require.NoError(t, err)
	return v
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	v := newTestVault(t)

	for _, plain := range []string{"user", "", "пароль", "JBSWY3DPEHPK3PXP"} {
		token, err := v.Encrypt("password", plain)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "v1."))

		got, err := v.Decrypt("password", token)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	v := newTestVault(t)

	a, err := v.Encrypt("secret", "same")
	require.NoError(t, err)
	b, err := v.Encrypt("secret", "same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecrypt_FieldBinding(t *testing.T) {
	v := newTestVault(t)

	token, err := v.Encrypt("username", "alice")
	require.NoError(t, err)

	_, err = v.Decrypt("password", token)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_Corrupt(t *testing.T) {
	v := newTestVault(t)
	token, err := v.Encrypt("secret", "S3CR3T")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no prefix", "gAAAAABfoo"},
		{"bad base64", "v1.!!!"},
		{"too short", "v1.AAAA"},
		{"flipped byte", token[:len(token)-2] + flip(token[len(token)-2:])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Decrypt("secret", tt.token)
			assert.ErrorIs(t, err, ErrDecrypt)
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	v := newTestVault(t)
	token, err := v.Encrypt("secret", "S3CR3T")
	require.NoError(t, err)

	other, err := GenerateKey()
	require.NoError(t, err)
	w, err := FromEncodedKey(other)
	require.NoError(t, err)

	_, err = w.Decrypt("secret", token)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"padded url", testKey, false},
		{"unpadded", strings.TrimRight(testKey, "="), false},
		{"empty", "", true},
		{"short", "c2hvcnQ=", true},
		{"garbage", "not a key at all", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrKey)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, 32)
		})
	}
}

func TestGenerateKey_IsParseable(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)

	_, err = ParseKey(k)
	assert.NoError(t, err)
}

// flip changes the characters of a base64url suffix to a different valid value.
func flip(s string) string {
	out := []byte(s)
	for i := range out {
		if out[i] == 'A' {
			out[i] = 'B'
		} else {
			out[i] = 'A'
		}
	}
	return string(out)
}
