// This file contains null-terminated string extraction and hex conversion
// helpers shared across the spawnset, replay, and memory-engine codecs.
// Grounded on repparser/repparser.go's cString/koreanString helpers in the
// teacher repo: a Devil Daggers player-name field read straight out of
// process memory can land in the same "not valid UTF-8" case a Korean
// Windows codepage produces, so the same EUC-KR fallback is kept here
// rather than dropped.

package ddbyte

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// CString stops at the first NUL byte; if none is found the full slice is
// returned as a string (spec.md §4.B, §8: byte_array_to_string([0x41, 0x42,
// 0x00, 0x43]) == "AB"). If the leading rune is invalid UTF-8, b is instead
// decoded as EUC-KR, matching the teacher's koreanString fallback.
func CString(b []byte) string {
	if r, _ := utf8.DecodeRune(b); r == utf8.RuneError {
		return koreanString(b)
	}
	if i := indexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// koreanString decodes b as EUC-KR and strips NUL padding and any residual
// decode-error replacement characters.
func koreanString(b []byte) string {
	decoded, _, err := transform.String(korean.EUCKR.NewDecoder(), string(b))
	if err != nil {
		return string(b)
	}
	decoded = strings.ReplaceAll(decoded, " ", "")
	decoded = strings.ReplaceAll(decoded, "�", "")
	return decoded
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// DecodeHex parses a hex string into bytes (spec.md §8:
// decode_hex("FF00A1") == [0xFF, 0x00, 0xA1]).
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// EncodeHexUpper renders b as upper-case hex, used for level_hash
// (spec.md §8: "level_hash returns 32 upper-case hex characters for any
// 16-byte MD5").
func EncodeHexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// EncodeHexLower renders b as lower-case hex.
func EncodeHexLower(b []byte) string {
	return hex.EncodeToString(b)
}
