package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// Fernet token layout: version(1) || timestamp(8) || iv(16) || ciphertext || hmac(32),
// base64url with padding. The first half of the 32-byte key signs, the
// second half is the AES-128 key.
const (
	fernetVersion  = 0x80
	fernetHeader   = 1 + 8 + aes.BlockSize
	fernetMACSize  = sha256.Size
	fernetTokenTag = "gAAAA"
)

var (
	errFernetFormat = errors.New("malformed fernet token")
	errFernetMAC    = errors.New("fernet signature mismatch")
	errFernetPad    = errors.New("bad fernet padding")
)

type fernetKey struct {
	sign []byte
	enc  []byte
}

func newFernetKey(key []byte) fernetKey {
	return fernetKey{sign: bytes.Clone(key[:16]), enc: bytes.Clone(key[16:32])}
}

func isFernetToken(token string) bool {
	return strings.HasPrefix(token, fernetTokenTag)
}

// open verifies and decrypts a Fernet token. Tokens never expire here:
// the previous storage decrypted without a TTL.
func (k fernetKey) open(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", errFernetFormat
	}
	if len(raw) < fernetHeader+aes.BlockSize+fernetMACSize || raw[0] != fernetVersion {
		return "", errFernetFormat
	}

	signed, mac := raw[:len(raw)-fernetMACSize], raw[len(raw)-fernetMACSize:]
	h := hmac.New(sha256.New, k.sign)
	h.Write(signed)
	if !hmac.Equal(h.Sum(nil), mac) {
		return "", errFernetMAC
	}

	iv, ct := signed[1+8:fernetHeader], signed[fernetHeader:]
	if len(ct)%aes.BlockSize != 0 {
		return "", errFernetFormat
	}
	block, err := aes.NewCipher(k.enc)
	if err != nil {
		return "", err
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)

	n := int(plain[len(plain)-1])
	if n == 0 || n > aes.BlockSize {
		return "", errFernetPad
	}
	for _, b := range plain[len(plain)-n:] {
		if int(b) != n {
			return "", errFernetPad
		}
	}
	return string(plain[:len(plain)-n]), nil
}
