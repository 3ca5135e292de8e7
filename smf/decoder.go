package smf

import (
	"io"
)

// DecodeTrack walks the payload of one MTrk chunk and dispatches every
// event to rcv. Running status resets at the start of the payload and
// is updated by each channel status byte; meta and sysex events leave
// it untouched. Decoding stops at the end-of-track meta event or when
// the payload is exhausted.
func DecodeTrack(data []byte, rcv Receiver) error {
	pos := 0
	var running byte

	for pos < len(data) {
		delta, next, err := readVarLen(data, pos)
		if err != nil {
			return err
		}
		pos = next

		if pos >= len(data) {
			return &TruncatedError{Offset: pos, What: "event status"}
		}

		status := data[pos]
		if isStatusByte(status) {
			pos++
		} else {
			// Data byte where an event starts: running status. The
			// byte stays in place as the event's first data byte.
			if running == 0 {
				return &StatusError{Offset: pos, Status: status}
			}
			status = running
		}

		switch {
		case isChannelStatus(status):
			running = status
			if err := decodeChannelEvent(data, &pos, delta, status, rcv); err != nil {
				return err
			}

		case isMetaStatus(status):
			if pos >= len(data) {
				return &TruncatedError{Offset: pos, What: "meta type"}
			}
			typ := data[pos]
			pos++
			payload, next, err := readSized(data, pos, "meta payload")
			if err != nil {
				return err
			}
			pos = next
			rcv.Meta(delta, typ, payload)
			if typ == MetaEndOfTrack {
				return nil
			}

		case isSysExStatus(status):
			payload, next, err := readSized(data, pos, "sysex payload")
			if err != nil {
				return err
			}
			pos = next
			rcv.SysEx(delta, payload)

		default:
			return &StatusError{Offset: pos - 1, Status: status}
		}
	}
	return nil
}

func decodeChannelEvent(data []byte, pos *int, delta uint32, status byte, rcv Receiver) error {
	n := dataByteCount(status)
	if *pos+n > len(data) {
		return &TruncatedError{Offset: *pos, What: "channel event data"}
	}
	ch := eventChannel(status)
	d1 := data[*pos]
	var d2 byte
	if n == 2 {
		d2 = data[*pos+1]
	}
	*pos += n

	switch eventType(status) {
	case NoteOff:
		rcv.NoteOff(delta, ch, d1, d2)
	case NoteOn:
		rcv.NoteOn(delta, ch, d1, d2)
	case PolyAfterTouch:
		rcv.PolyAfterTouch(delta, ch, d1, d2)
	case ControlChange:
		rcv.ControlChange(delta, ch, d1, d2)
	case ProgramChange:
		rcv.ProgramChange(delta, ch, d1)
	case AfterTouch:
		rcv.AfterTouch(delta, ch, d1)
	case PitchBend:
		// 14-bit value, LSB first.
		rcv.PitchBend(delta, ch, uint16(d1)|uint16(d2)<<7)
	}
	return nil
}

// readSized reads a variable-length length field followed by that many
// raw bytes, returning a copy owned by the caller.
func readSized(data []byte, pos int, what string) ([]byte, int, error) {
	size, next, err := readVarLen(data, pos)
	if err != nil {
		return nil, pos, err
	}
	pos = next
	end := pos + int(size)
	if end > len(data) || end < pos {
		return nil, pos, &TruncatedError{Offset: pos, What: what}
	}
	payload := make([]byte, size)
	copy(payload, data[pos:end])
	return payload, end, nil
}

// ReadTrack reads one MTrk chunk from r and decodes its payload into
// rcv. Chunks with an unknown tag are skipped until a track chunk is
// found; io.EOF is returned when the stream ends before one appears.
func ReadTrack(r io.Reader, rcv Receiver) error {
	for {
		ch, err := ReadChunkHeader(r)
		if err != nil {
			return err
		}
		payload := make([]byte, ch.Size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return &TruncatedError{What: "chunk payload (" + ch.ID() + ")"}
		}
		if ch.ID() != TagTrack {
			continue
		}
		return DecodeTrack(payload, rcv)
	}
}
