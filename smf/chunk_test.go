package smf

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func headerBytes(format, ntracks, division uint16) []byte {
	return []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		byte(format >> 8), byte(format),
		byte(ntracks >> 8), byte(ntracks),
		byte(division >> 8), byte(division),
	}
}

func TestReadHeader(t *testing.T) {
	hdr, err := ReadHeader(bytes.NewReader(headerBytes(1, 3, 480)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.Format != 1 || hdr.NumTracks != 3 || hdr.Division != 480 {
		t.Errorf("got %+v, want format=1 tracks=3 division=480", hdr)
	}
}

func TestReadHeaderBadTag(t *testing.T) {
	data := headerBytes(0, 1, 96)
	copy(data, "MTrk")

	var hdrErr *HeaderError
	_, err := ReadHeader(bytes.NewReader(data))
	if !errors.As(err, &hdrErr) {
		t.Fatalf("got %v, want HeaderError", err)
	}
	if hdrErr.Tag != "MTrk" {
		t.Errorf("HeaderError.Tag = %q, want %q", hdrErr.Tag, "MTrk")
	}
}

func TestReadHeaderBadSize(t *testing.T) {
	data := headerBytes(0, 1, 96)
	data[7] = 7 // declared size != 6

	var hdrErr *HeaderError
	if _, err := ReadHeader(bytes.NewReader(data)); !errors.As(err, &hdrErr) {
		t.Fatalf("got %v, want HeaderError", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	var trunc *TruncatedError
	if _, err := ReadHeader(bytes.NewReader(headerBytes(0, 1, 96)[:10])); !errors.As(err, &trunc) {
		t.Fatalf("got %v, want TruncatedError", err)
	}
}

func TestReadChunkHeaderEOF(t *testing.T) {
	if _, err := ReadChunkHeader(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("empty stream: got %v, want io.EOF", err)
	}

	var trunc *TruncatedError
	if _, err := ReadChunkHeader(bytes.NewReader([]byte{'M', 'T'})); !errors.As(err, &trunc) {
		t.Errorf("partial tag: got %v, want TruncatedError", err)
	}
}
