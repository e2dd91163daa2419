// Package ddcrypto implements the submission-token cipher chain (spec.md
// §4.C): PBKDF2-HMAC-SHA1 key derivation, AES-128-CBC with PKCS#7 padding,
// and base32 token encoding.
package ddcrypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"encoding/base32"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCryptoError is returned for any key-derivation or cipher failure
// (spec.md §7 "CryptoError").
var ErrCryptoError = errors.New("ddcrypto: crypto error")

const (
	keyLen      = 16
	pbkdf2Iters = 65536
)

// DeriveKey derives a 16-byte AES-128 key from password and salt via
// PBKDF2-HMAC-SHA1 at 65,536 iterations (spec.md §4.C).
func DeriveKey(password, salt []byte) [keyLen]byte {
	derived := pbkdf2.Key(password, salt, pbkdf2Iters, keyLen, sha1.New)
	var key [keyLen]byte
	copy(key[:], derived)
	return key
}

// EncryptCBC encrypts plaintext under key using AES-128-CBC with PKCS#7
// padding and the given IV (spec.md §4.C).
func EncryptCBC(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoError, err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("%w: iv length %d != block size %d", ErrCryptoError, len(iv), block.BlockSize())
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

// pkcs7Pad pads data to a multiple of blockSize per RFC 5652 §6.3.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

// EncodeToken encodes data as RFC 4648 base32 with `=` padding. Callers
// strip `=` to form the wire token (spec.md §4.C, §4.T step 4).
func EncodeToken(data []byte) string {
	return base32.StdEncoding.EncodeToString(data)
}
