package smf

// MIDI status bytes and channel-event type nibbles.
const (
	statusFlag byte = 0x80 // high bit marks a status byte

	MetaStatus  byte = 0xFF
	SysExStatus byte = 0xF0
	SysExEscape byte = 0xF7

	NoteOff        byte = 0x80
	NoteOn         byte = 0x90
	PolyAfterTouch byte = 0xA0
	ControlChange  byte = 0xB0
	ProgramChange  byte = 0xC0
	AfterTouch     byte = 0xD0
	PitchBend      byte = 0xE0
)

// MetaEndOfTrack is the meta event type that terminates a track.
const MetaEndOfTrack byte = 0x2F

// Receiver is the sink for one decoded track stream. DecodeTrack calls
// exactly one method per event, passing the delta time in ticks since
// the previous event; receivers accumulate absolute time themselves.
//
// The data slice handed to Meta and SysEx is owned by the receiver and
// never reused by the decoder.
type Receiver interface {
	NoteOn(delta uint32, channel, note, velocity uint8)
	NoteOff(delta uint32, channel, note, velocity uint8)
	PolyAfterTouch(delta uint32, channel, note, pressure uint8)
	ControlChange(delta uint32, channel, controller, value uint8)
	ProgramChange(delta uint32, channel, program uint8)
	AfterTouch(delta uint32, channel, pressure uint8)
	PitchBend(delta uint32, channel uint8, value uint16)
	Meta(delta uint32, typ uint8, data []byte)
	SysEx(delta uint32, data []byte)
}

func isStatusByte(b byte) bool {
	return b&statusFlag != 0
}

func isMetaStatus(b byte) bool {
	return b == MetaStatus
}

func isSysExStatus(b byte) bool {
	return b == SysExStatus || b == SysExEscape
}

// isChannelStatus reports whether b starts a MIDI channel event
// (type nibble 0x8 through 0xE).
func isChannelStatus(b byte) bool {
	return b >= 0x80 && b < 0xF0
}

func eventType(status byte) byte {
	return status & 0xF0
}

func eventChannel(status byte) uint8 {
	return status & 0x0F
}

// dataByteCount returns how many data bytes follow a channel status
// byte. Program change and channel pressure take one, the rest two.
func dataByteCount(status byte) int {
	switch eventType(status) {
	case ProgramChange, AfterTouch:
		return 1
	default:
		return 2
	}
}
