package ddcrypto

import (
	"bytes"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	k1 := DeriveKey([]byte("password"), []byte("salt"))
	k2 := DeriveKey([]byte("password"), []byte("salt"))
	if k1 != k2 {
		t.Errorf("DeriveKey not deterministic: %x != %x", k1, k2)
	}

	k3 := DeriveKey([]byte("password"), []byte("different-salt"))
	if k1 == k3 {
		t.Errorf("DeriveKey should vary with salt")
	}
}

func TestEncryptCBCBlockAlignedOutput(t *testing.T) {
	key := DeriveKey([]byte("password"), []byte("salt"))
	iv := bytes.Repeat([]byte{0x42}, 16)

	cases := [][]byte{
		[]byte(""),
		[]byte("short"),
		[]byte("exactly-16-bytes"),
		bytes.Repeat([]byte("x"), 33),
	}

	for _, plaintext := range cases {
		ciphertext, err := EncryptCBC(plaintext, key[:], iv)
		if err != nil {
			t.Fatalf("EncryptCBC(%q): %v", plaintext, err)
		}
		if len(ciphertext)%16 != 0 {
			t.Errorf("ciphertext length %d not a multiple of the block size", len(ciphertext))
		}
	}
}

func TestEncryptCBCBadIVLength(t *testing.T) {
	key := DeriveKey([]byte("password"), []byte("salt"))
	_, err := EncryptCBC([]byte("data"), key[:], []byte{0x01, 0x02})
	if err == nil {
		t.Fatal("expected error for bad IV length")
	}
}

func TestEncodeTokenStripPadding(t *testing.T) {
	token := EncodeToken([]byte("f"))
	if !bytes.Contains([]byte(token), []byte("=")) {
		t.Fatalf("expected padded base32 output, got %q", token)
	}

	stripped := bytes.ReplaceAll([]byte(token), []byte("="), []byte(""))
	if bytes.Contains(stripped, []byte("=")) {
		t.Errorf("stripped token still contains '='")
	}
}
