package smf

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	gosmf "gitlab.com/gomidi/midi/v2/smf"
)

func trackChunk(events ...byte) []byte {
	payload := append(append([]byte{}, events...), endOfTrack...)
	chunk := []byte{'M', 'T', 'r', 'k',
		byte(len(payload) >> 24), byte(len(payload) >> 16),
		byte(len(payload) >> 8), byte(len(payload))}
	return append(chunk, payload...)
}

func TestReadNotes(t *testing.T) {
	file := headerBytes(0, 1, 480)
	file = append(file, trackChunk(
		0x00, 0xC0, 25, // program change
		0x00, 0x90, 60, 100,
		0x60, 0x80, 60, 0,
	)...)

	notes, err := ReadNotes(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	want := Note{Number: 60, Start: 0, Duration: 0x60, Velocity: 100, Instrument: 25}
	if len(notes) != 1 || notes[0] != want {
		t.Errorf("got %v, want [%v]", notes, want)
	}
}

func TestReadTracksKeepsTracksApart(t *testing.T) {
	file := headerBytes(1, 2, 480)
	file = append(file, trackChunk(0x00, 0x90, 60, 100, 0x10, 0x80, 60, 0)...)
	file = append(file, trackChunk(0x00, 0x91, 72, 80, 0x20, 0x81, 72, 0)...)

	hdr, tracks, err := ReadTracks(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("ReadTracks: %v", err)
	}
	if hdr.NumTracks != 2 {
		t.Errorf("header tracks = %d, want 2", hdr.NumTracks)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if len(tracks[0]) != 1 || tracks[0][0].Number != 60 {
		t.Errorf("track 0: got %v", tracks[0])
	}
	if len(tracks[1]) != 1 || tracks[1][0].Number != 72 || tracks[1][0].Duration != 0x20 {
		t.Errorf("track 1: got %v", tracks[1])
	}
}

func TestReadNotesSkipsForeignChunks(t *testing.T) {
	file := headerBytes(0, 1, 480)
	// Unknown chunk between header and track, as some tools emit.
	file = append(file, 'X', 'F', 'I', 'H', 0, 0, 0, 2, 0xAB, 0xCD)
	file = append(file, trackChunk(0x00, 0x90, 60, 100, 0x10, 0x80, 60, 0)...)

	notes, err := ReadNotes(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("got %d notes, want 1", len(notes))
	}
}

func TestReadNotesTruncatedChunk(t *testing.T) {
	file := headerBytes(0, 1, 480)
	// Chunk claims 100 bytes, delivers 4.
	file = append(file, 'M', 'T', 'r', 'k', 0, 0, 0, 100, 0x00, 0x90, 60, 100)

	var trunc *TruncatedError
	if _, err := ReadNotes(bytes.NewReader(file)); !errors.As(err, &trunc) {
		t.Fatalf("got %v, want TruncatedError", err)
	}
}

func TestReadNotesBadHeader(t *testing.T) {
	var hdrErr *HeaderError
	if _, err := ReadNotes(bytes.NewReader(trackChunk())); !errors.As(err, &hdrErr) {
		t.Fatalf("got %v, want HeaderError", err)
	}
}

func TestReadTrack(t *testing.T) {
	// A stray chunk before the MTrk must be skipped.
	data := []byte{'J', 'u', 'n', 'k', 0, 0, 0, 1, 0xEE}
	data = append(data, trackChunk(0x00, 0x90, 60, 100)...)

	var rec recorder
	if err := ReadTrack(bytes.NewReader(data), &rec); err != nil {
		t.Fatalf("ReadTrack: %v", err)
	}
	if len(rec.events) != 2 || rec.events[0].kind != "on" {
		t.Errorf("got %+v, want note-on then end-of-track", rec.events)
	}
}

// Cross-check against the gomidi SMF writer: files it produces must
// decode to the notes they were built from.
func TestReadNotesGomidiFile(t *testing.T) {
	s := gosmf.New()
	s.TimeFormat = gosmf.MetricTicks(480)

	var tr gosmf.Track
	tr.Add(0, midi.ProgramChange(0, 25))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(1, 64, 90))
	tr.Add(240, midi.NoteOff(1, 64))
	tr.Close(0)
	s.Add(tr)

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	notes, err := ReadNotes(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	want := []Note{
		{Number: 60, Start: 0, Duration: 480, Velocity: 100, Instrument: 25},
		{Number: 64, Start: 480, Duration: 240, Velocity: 90},
	}
	if len(notes) != len(want) {
		t.Fatalf("got %d notes, want %d: %v", len(notes), len(want), notes)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Errorf("note %d: got %v, want %v", i, notes[i], want[i])
		}
	}
}
