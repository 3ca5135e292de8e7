package smf

import "fmt"

// Note is one reconstructed note: a note-on paired with its matching
// note-off on the same channel and pitch. Start and Duration are in
// ticks; Instrument is the last program change seen on the channel
// before the note opened (0 until one is seen).
type Note struct {
	Number     uint8
	Start      uint64
	Duration   uint64
	Velocity   uint8
	Instrument uint8
}

func (n Note) String() string {
	return fmt.Sprintf("note %3d start %6d dur %5d vel %3d prog %3d",
		n.Number, n.Start, n.Duration, n.Velocity, n.Instrument)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a note number as pitch name plus octave, C4 = 60.
func NoteName(n uint8) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n/12)-1)
}

// noVelocity marks an empty open-note slot; real velocities are 0-127.
const noVelocity uint16 = 128

// ChannelCollector is a Receiver bound to one channel. It advances its
// clock on every event, tracks the open note per pitch, and emits a
// Note each time one closes. Events addressed to other channels only
// advance the clock.
type ChannelCollector struct {
	channel    uint8
	emit       func(Note)
	instrument uint8
	time       uint64
	openStart  [128]uint64
	openVel    [128]uint16
}

// NewChannelCollector creates a collector for the given channel that
// passes completed notes to emit.
func NewChannelCollector(channel uint8, emit func(Note)) *ChannelCollector {
	c := &ChannelCollector{channel: channel, emit: emit}
	for i := range c.openVel {
		c.openVel[i] = noVelocity
	}
	return c
}

// close emits the open note for pitch, if any, ending at the current
// clock. A missing open note is silently ignored: real-world files
// carry unmatched note-offs and tolerating them is deliberate.
func (c *ChannelCollector) close(note uint8) {
	if c.openVel[note] == noVelocity {
		return
	}
	c.emit(Note{
		Number:     note,
		Start:      c.openStart[note],
		Duration:   c.time - c.openStart[note],
		Velocity:   uint8(c.openVel[note]),
		Instrument: c.instrument,
	})
	c.openVel[note] = noVelocity
}

func (c *ChannelCollector) NoteOn(delta uint32, channel, note, velocity uint8) {
	c.time += uint64(delta)
	if channel != c.channel {
		return
	}
	if velocity == 0 {
		// Zero-velocity note-on is the standard stand-in for note-off.
		c.close(note)
		return
	}
	// A second note-on while the pitch is open closes the first note
	// here: devices retrigger without sending the off first.
	c.close(note)
	c.openStart[note] = c.time
	c.openVel[note] = uint16(velocity)
}

func (c *ChannelCollector) NoteOff(delta uint32, channel, note, velocity uint8) {
	c.time += uint64(delta)
	if channel != c.channel {
		return
	}
	c.close(note)
}

func (c *ChannelCollector) PolyAfterTouch(delta uint32, channel, note, pressure uint8) {
	c.time += uint64(delta)
}

func (c *ChannelCollector) ControlChange(delta uint32, channel, controller, value uint8) {
	c.time += uint64(delta)
}

func (c *ChannelCollector) ProgramChange(delta uint32, channel, program uint8) {
	c.time += uint64(delta)
	if channel == c.channel {
		c.instrument = program
	}
}

func (c *ChannelCollector) AfterTouch(delta uint32, channel, pressure uint8) {
	c.time += uint64(delta)
}

func (c *ChannelCollector) PitchBend(delta uint32, channel uint8, value uint16) {
	c.time += uint64(delta)
}

func (c *ChannelCollector) Meta(delta uint32, typ uint8, data []byte) {
	c.time += uint64(delta)
}

func (c *ChannelCollector) SysEx(delta uint32, data []byte) {
	c.time += uint64(delta)
}

// Multicaster fans every event out to a list of receivers in order.
type Multicaster struct {
	receivers []Receiver
}

// NewMulticaster creates a multicaster over the given receivers.
func NewMulticaster(receivers ...Receiver) *Multicaster {
	return &Multicaster{receivers: receivers}
}

func (m *Multicaster) NoteOn(delta uint32, channel, note, velocity uint8) {
	for _, r := range m.receivers {
		r.NoteOn(delta, channel, note, velocity)
	}
}

func (m *Multicaster) NoteOff(delta uint32, channel, note, velocity uint8) {
	for _, r := range m.receivers {
		r.NoteOff(delta, channel, note, velocity)
	}
}

func (m *Multicaster) PolyAfterTouch(delta uint32, channel, note, pressure uint8) {
	for _, r := range m.receivers {
		r.PolyAfterTouch(delta, channel, note, pressure)
	}
}

func (m *Multicaster) ControlChange(delta uint32, channel, controller, value uint8) {
	for _, r := range m.receivers {
		r.ControlChange(delta, channel, controller, value)
	}
}

func (m *Multicaster) ProgramChange(delta uint32, channel, program uint8) {
	for _, r := range m.receivers {
		r.ProgramChange(delta, channel, program)
	}
}

func (m *Multicaster) AfterTouch(delta uint32, channel, pressure uint8) {
	for _, r := range m.receivers {
		r.AfterTouch(delta, channel, pressure)
	}
}

func (m *Multicaster) PitchBend(delta uint32, channel uint8, value uint16) {
	for _, r := range m.receivers {
		r.PitchBend(delta, channel, value)
	}
}

func (m *Multicaster) Meta(delta uint32, typ uint8, data []byte) {
	for _, r := range m.receivers {
		r.Meta(delta, typ, data)
	}
}

func (m *Multicaster) SysEx(delta uint32, data []byte) {
	for _, r := range m.receivers {
		r.SysEx(delta, data)
	}
}

// NoteCollector is a Receiver that reconstructs notes on all 16
// channels at once: one ChannelCollector per channel behind a
// multicaster, all emitting into the same callback. Notes arrive in
// the order they close, not the order they start.
type NoteCollector struct {
	*Multicaster
}

// NewNoteCollector creates a collector whose 16 channel collectors all
// emit into the given callback.
func NewNoteCollector(emit func(Note)) *NoteCollector {
	receivers := make([]Receiver, 16)
	for ch := 0; ch < 16; ch++ {
		receivers[ch] = NewChannelCollector(uint8(ch), emit)
	}
	return &NoteCollector{Multicaster: NewMulticaster(receivers...)}
}
