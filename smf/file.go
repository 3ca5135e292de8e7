package smf

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// ReadTracksWith decodes a whole SMF stream, building a fresh Receiver
// for each MTrk chunk via newReceiver. Track state is independent:
// nothing carries over between chunks. Unknown chunk types are
// skipped.
func ReadTracksWith(r io.Reader, newReceiver func(track int) Receiver) (Header, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return hdr, err
	}

	track := 0
	for {
		ch, err := ReadChunkHeader(r)
		if err == io.EOF {
			return hdr, nil
		}
		if err != nil {
			return hdr, err
		}
		payload := make([]byte, ch.Size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return hdr, &TruncatedError{What: "chunk payload (" + ch.ID() + ")"}
		}
		if ch.ID() != TagTrack {
			continue
		}
		if err := DecodeTrack(payload, newReceiver(track)); err != nil {
			return hdr, fmt.Errorf("track %d: %w", track, err)
		}
		track++
	}
}

// ReadTracks decodes a whole SMF stream and returns the header plus
// the reconstructed notes of each track separately, in emission order.
// On error, notes emitted before the failure are still returned.
func ReadTracks(r io.Reader) (Header, [][]Note, error) {
	var tracks [][]Note
	hdr, err := ReadTracksWith(r, func(track int) Receiver {
		tracks = append(tracks, nil)
		return NewNoteCollector(func(n Note) {
			tracks[track] = append(tracks[track], n)
		})
	})
	return hdr, tracks, err
}

// ReadNotes decodes a whole SMF stream and returns the reconstructed
// notes of all tracks as one flat slice in emission order.
func ReadNotes(r io.Reader) ([]Note, error) {
	_, tracks, err := ReadTracks(r)
	if err != nil {
		return nil, err
	}
	var notes []Note
	for _, t := range tracks {
		notes = append(notes, t...)
	}
	return notes, nil
}

// ReadNotesFile reads the SMF file at path and returns its notes.
func ReadNotesFile(path string) ([]Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadNotes(f)
}

// SortByStart reorders notes into onset order. ReadNotes returns notes
// in the order they close, which is rarely what a display wants.
func SortByStart(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Number < notes[j].Number
	})
}
