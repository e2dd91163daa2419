package ddbyte

import "testing"

func TestCString(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{[]byte{0x41, 0x42, 0x00, 0x43}, "AB"},
		{[]byte{0x41, 0x42}, "AB"},
		{[]byte{0x00}, ""},
	}
	for _, c := range cases {
		if got := CString(c.in); got != c.want {
			t.Errorf("CString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCStringKoreanFallback(t *testing.T) {
	// EUC-KR encoding of "가" (U+AC00), as a player name read straight out
	// of process memory might arrive on a Korean Windows install.
	b := []byte{0xB0, 0xA1, 0x00, 0x00}
	if got, want := CString(b), "가"; got != want {
		t.Errorf("CString(%v) = %q, want %q", b, got, want)
	}
}

func TestDecodeHex(t *testing.T) {
	got, err := DecodeHex("FF00A1")
	if err != nil {
		t.Fatalf("DecodeHex: %v", err)
	}
	want := []byte{0xFF, 0x00, 0xA1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestEncodeHexUpperLower(t *testing.T) {
	b := []byte{0xDE, 0xAD}
	if got := EncodeHexUpper(b); got != "DEAD" {
		t.Errorf("EncodeHexUpper = %q, want DEAD", got)
	}
	if got := EncodeHexLower(b); got != "dead" {
		t.Errorf("EncodeHexLower = %q, want dead", got)
	}
}

func TestLEReadWriteRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutLEInt32(b, 0, -42)
	if got := ReadLEInt32(b, 0); got != -42 {
		t.Errorf("ReadLEInt32 = %d, want -42", got)
	}

	PutLEUint32(b, 4, 0xCAFEBABE)
	if got := ReadLEUint32(b, 4); got != 0xCAFEBABE {
		t.Errorf("ReadLEUint32 = %#x, want 0xcafebabe", got)
	}

	PutLEUint64(b, 8, 0x1122334455667788)
	if got := ReadLEUint64(b, 8); got != 0x1122334455667788 {
		t.Errorf("ReadLEUint64 = %#x", got)
	}

	PutLEFloat32(b, 0, 3.5)
	if got := ReadLEFloat32(b, 0); got != 3.5 {
		t.Errorf("ReadLEFloat32 = %v, want 3.5", got)
	}
}

func TestVersionCompare(t *testing.T) {
	v1, err := ParseVersion("1.4.3.0")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	v2, err := ParseVersion("1.4.3.1")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}

	if !v1.Less(v2) {
		t.Errorf("expected v1 < v2")
	}
	if v2.Compare(v1) != 1 {
		t.Errorf("expected v2 > v1")
	}
	if v1.Compare(v1) != 0 {
		t.Errorf("expected v1 == v1 (reflexive)")
	}
	if v1.Compare(v2) != -v2.Compare(v1) {
		t.Errorf("comparator not antisymmetric")
	}

	v3, _ := ParseVersion("2.0.0.0")
	if !(v1.Less(v2) && v2.Less(v3) && v1.Less(v3)) {
		t.Errorf("comparator not transitive across the 4-tuple")
	}
}

func TestVersionMissingComponentsDefaultZero(t *testing.T) {
	v, err := ParseVersion("1.2")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if v.Build != 0 || v.Revision != 0 {
		t.Errorf("missing components not defaulted to 0: %+v", v)
	}
}
