package smf

import (
	"errors"
	"testing"
)

// encodeVarLen is the write-side counterpart of readVarLen, used only
// to exercise round-trips.
func encodeVarLen(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	v >>= 7
	for v > 0 {
		out = append([]byte{byte(v&0x7F) | vlqContinue}, out...)
		v >>= 7
	}
	return out
}

func TestVarLenRoundTrip(t *testing.T) {
	values := []uint32{
		0, 1, 0x40, 0x7F, // 1 byte
		0x80, 0x2000, 0x3FFF, // 2 bytes
		0x4000, 0x100000, 0x1FFFFF, // 3 bytes
		0x200000, 0x08000000, 0x0FFFFFFF, // 4 bytes
	}
	for _, want := range values {
		enc := encodeVarLen(want)
		got, pos, err := readVarLen(enc, 0)
		if err != nil {
			t.Fatalf("readVarLen(% x): %v", enc, err)
		}
		if got != want {
			t.Errorf("readVarLen(% x) = %d, want %d", enc, got, want)
		}
		if pos != len(enc) {
			t.Errorf("readVarLen(% x) consumed %d bytes, want %d", enc, pos, len(enc))
		}
	}
}

func TestVarLenKnownEncodings(t *testing.T) {
	// Examples straight from the SMF specification.
	cases := []struct {
		enc  []byte
		want uint32
	}{
		{[]byte{0x00}, 0x00},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x81, 0x00}, 0x80},
		{[]byte{0xC0, 0x00}, 0x2000},
		{[]byte{0xFF, 0x7F}, 0x3FFF},
		{[]byte{0x81, 0x80, 0x00}, 0x4000},
		{[]byte{0xFF, 0xFF, 0x7F}, 0x1FFFFF},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 0x200000},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF},
	}
	for _, c := range cases {
		got, _, err := readVarLen(c.enc, 0)
		if err != nil {
			t.Fatalf("readVarLen(% x): %v", c.enc, err)
		}
		if got != c.want {
			t.Errorf("readVarLen(% x) = %#x, want %#x", c.enc, got, c.want)
		}
	}
}

func TestVarLenTruncated(t *testing.T) {
	var trunc *TruncatedError

	_, _, err := readVarLen([]byte{0x81}, 0)
	if !errors.As(err, &trunc) {
		t.Errorf("continuation bit with no next byte: got %v, want TruncatedError", err)
	}

	_, _, err = readVarLen(nil, 0)
	if !errors.As(err, &trunc) {
		t.Errorf("empty buffer: got %v, want TruncatedError", err)
	}

	// Continuation bit still set on the fourth byte.
	_, _, err = readVarLen([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x00}, 0)
	if !errors.As(err, &trunc) {
		t.Errorf("overlong quantity: got %v, want TruncatedError", err)
	}
}
