// Package smf decodes Standard MIDI File track data into typed event
// streams and reconstructs discrete notes from note-on/note-off pairs.
//
// The package is split in two layers: DecodeTrack turns an MTrk payload
// into Receiver callbacks with correct delta-time and running-status
// semantics, and NoteCollector (16 per-channel state machines behind a
// multicaster) pairs note-ons with their matching offs into Note records.
// ReadNotes drives both layers over a whole file.
package smf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Chunk tags defined by the SMF container format.
const (
	TagHeader = "MThd"
	TagTrack  = "MTrk"
)

// headerDataSize is the declared payload size of a valid MThd chunk.
const headerDataSize = 6

// ChunkHeader frames every chunk in an SMF file: a 4-byte ASCII tag
// followed by a big-endian payload length.
type ChunkHeader struct {
	Tag  [4]byte
	Size uint32
}

// ID returns the chunk tag as a string.
func (h ChunkHeader) ID() string {
	return string(h.Tag[:])
}

// ReadChunkHeader reads the next 8-byte chunk header from r.
// io.EOF is returned untouched when the stream ends cleanly at a
// chunk boundary so callers can detect end of file.
func ReadChunkHeader(r io.Reader) (ChunkHeader, error) {
	var h ChunkHeader
	if _, err := io.ReadFull(r, h.Tag[:]); err != nil {
		if err == io.EOF {
			return h, io.EOF
		}
		return h, &TruncatedError{What: "chunk tag"}
	}
	if err := binary.Read(r, binary.BigEndian, &h.Size); err != nil {
		return h, &TruncatedError{What: "chunk size"}
	}
	return h, nil
}

// Header holds the decoded MThd payload.
type Header struct {
	Format    uint16 // 0 single track, 1 parallel tracks, 2 sequential
	NumTracks uint16
	Division  uint16 // raw division field; high bit set means SMPTE format
}

func (h Header) String() string {
	return fmt.Sprintf("format=%d tracks=%d division=%d", h.Format, h.NumTracks, h.Division)
}

// ReadHeader reads and validates an MThd chunk from r. The chunk tag
// must be "MThd" and the declared size exactly 6; anything else is a
// *HeaderError.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr Header
	ch, err := ReadChunkHeader(r)
	if err != nil {
		if err == io.EOF {
			return hdr, &TruncatedError{What: "MThd chunk"}
		}
		return hdr, err
	}
	if ch.ID() != TagHeader || ch.Size != headerDataSize {
		return hdr, &HeaderError{Tag: ch.ID(), Size: ch.Size}
	}
	buf := make([]byte, headerDataSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return hdr, &TruncatedError{What: "MThd payload"}
	}
	hdr.Format = binary.BigEndian.Uint16(buf[0:2])
	hdr.NumTracks = binary.BigEndian.Uint16(buf[2:4])
	hdr.Division = binary.BigEndian.Uint16(buf[4:6])
	return hdr, nil
}
