package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tokens produced by the previous Fernet storage with testKey.
const (
	fernetUser   = "gAAAAABl4cNAAQEBAQEBAQEBAQEBAQEBAT-DsNKEMWBziuTGtY9QDvgW4ItAjYqNMMGeQXE82R86FsLyGlGsu58F062hUbtHtQ=="
	fernetSecret = "gAAAAABl4cNAAwMDAwMDAwMDAwMDAwMDAymgpWCXWaiM8IWnzDqJ7QoSRg0ToxwSi_d9QEdAmQqZ0k9KfyQnKw6v6sbfrRd3Qw=="
	fernetEmpty  = "gAAAAABl4cNABAQEBAQEBAQEBAQEBAQEBCBsERVaW_vomO5lOoQ0tn_-qozG0af3IlyfBQdv_9C1cYaG0RgGeGmzSGNWWtYo8g=="
)

func TestDecrypt_LegacyFernet(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		token string
		want  string
	}{
		{fernetUser, "user"},
		{fernetSecret, "S3CR3T"},
		{fernetEmpty, ""},
	}
	for _, tt := range tests {
		got, err := v.Decrypt("username", tt.token)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecrypt_LegacyFernetRejectsTampering(t *testing.T) {
	v := newTestVault(t)

	flipped := []byte(fernetUser)
	flipped[40] ^= 'A' ^ 'B'
	_, err := v.Decrypt("username", string(flipped))
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = v.Decrypt("username", fernetUser[:30])
	assert.ErrorIs(t, err, ErrDecrypt)

	other, err := FromEncodedKey("MTExMTExMTExMTExMTExMTExMTExMTExMTExMTExMTE=")
	require.NoError(t, err)
	_, err = other.Decrypt("username", fernetUser)
	assert.ErrorIs(t, err, ErrDecrypt)
}
