package main

import (
	"fmt"
	"os"

	gosmf "gitlab.com/gomidi/midi/v2/smf"

	"go-notes/smf"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		return
	}

	cmd, path := os.Args[1], os.Args[2]
	var err error
	switch cmd {
	case "header":
		err = dumpHeader(path)
	case "events":
		err = dumpEventCounts(path)
	case "notes":
		err = dumpNotes(path)
	case "stats":
		err = dumpStats(path)
	case "verify":
		err = verify(path)
	default:
		usage()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "smfdump %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("SMF Inspection Tool")
	fmt.Println("")
	fmt.Println("Usage: smfdump <command> <file.mid>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  header  - Print the MThd fields")
	fmt.Println("  events  - Count decoded events per kind, per track")
	fmt.Println("  notes   - Print reconstructed notes per track")
	fmt.Println("  stats   - Per-channel and per-instrument note counts")
	fmt.Println("  verify  - Cross-check note-on counts against gomidi")
}

func dumpHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr, err := smf.ReadHeader(f)
	if err != nil {
		return err
	}
	fmt.Printf("format:   %d\n", hdr.Format)
	fmt.Printf("tracks:   %d\n", hdr.NumTracks)
	if hdr.Division&0x8000 != 0 {
		fmt.Printf("division: %#04x (SMPTE)\n", hdr.Division)
	} else {
		fmt.Printf("division: %d ticks per quarter note\n", hdr.Division)
	}
	return nil
}

// eventCounter tallies receiver callbacks per kind.
type eventCounter struct {
	counts map[string]int
}

func (c *eventCounter) add(kind string) {
	c.counts[kind]++
}

func (c *eventCounter) NoteOn(delta uint32, channel, note, velocity uint8) { c.add("note-on") }
func (c *eventCounter) NoteOff(delta uint32, channel, note, velocity uint8) {
	c.add("note-off")
}
func (c *eventCounter) PolyAfterTouch(delta uint32, channel, note, pressure uint8) {
	c.add("poly-aftertouch")
}
func (c *eventCounter) ControlChange(delta uint32, channel, controller, value uint8) {
	c.add("control-change")
}
func (c *eventCounter) ProgramChange(delta uint32, channel, program uint8) {
	c.add("program-change")
}
func (c *eventCounter) AfterTouch(delta uint32, channel, pressure uint8) { c.add("aftertouch") }
func (c *eventCounter) PitchBend(delta uint32, channel uint8, value uint16) {
	c.add("pitch-bend")
}
func (c *eventCounter) Meta(delta uint32, typ uint8, data []byte) { c.add("meta") }
func (c *eventCounter) SysEx(delta uint32, data []byte)           { c.add("sysex") }

func dumpEventCounts(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var counters []*eventCounter
	_, err = smf.ReadTracksWith(f, func(track int) smf.Receiver {
		c := &eventCounter{counts: make(map[string]int)}
		counters = append(counters, c)
		return c
	})
	if err != nil {
		return err
	}

	kinds := []string{
		"note-on", "note-off", "poly-aftertouch", "control-change",
		"program-change", "aftertouch", "pitch-bend", "meta", "sysex",
	}
	for i, c := range counters {
		fmt.Printf("track %d:\n", i)
		for _, k := range kinds {
			if n := c.counts[k]; n > 0 {
				fmt.Printf("  %-16s %d\n", k, n)
			}
		}
	}
	return nil
}

func dumpNotes(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, tracks, err := smf.ReadTracks(f)
	if err != nil {
		return err
	}
	for i, notes := range tracks {
		fmt.Printf("track %d: %d notes\n", i, len(notes))
		for _, n := range notes {
			fmt.Printf("  %-4s %v\n", smf.NoteName(n.Number), n)
		}
	}
	return nil
}

func dumpStats(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var byChannel [16]int
	var byProgram [128]int

	// One collector per channel so note counts stay attributable; the
	// flat NoteCollector would lose the channel.
	_, err = smf.ReadTracksWith(f, func(track int) smf.Receiver {
		receivers := make([]smf.Receiver, 16)
		for ch := 0; ch < 16; ch++ {
			ch := ch
			receivers[ch] = smf.NewChannelCollector(uint8(ch), func(n smf.Note) {
				byChannel[ch]++
				byProgram[n.Instrument]++
			})
		}
		return smf.NewMulticaster(receivers...)
	})
	if err != nil {
		return err
	}

	fmt.Println("notes per channel:")
	for ch, n := range byChannel {
		if n > 0 {
			fmt.Printf("  channel %-2d %d\n", ch, n)
		}
	}
	fmt.Println("notes per program:")
	for prog, n := range byProgram {
		if n > 0 {
			fmt.Printf("  program %-3d %d\n", prog, n)
		}
	}
	return nil
}

// verify decodes the file twice, once with this package and once with
// gomidi, and compares note-on counts. A mismatch means one of the two
// decoders mishandled the event framing.
func verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ourStarts := 0
	ourNotes := 0
	_, err = smf.ReadTracksWith(f, func(track int) smf.Receiver {
		collector := smf.NewNoteCollector(func(smf.Note) { ourNotes++ })
		return smf.NewMulticaster(collector, &noteStartCounter{n: &ourStarts})
	})
	if err != nil {
		return err
	}

	ref, err := gosmf.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gomidi: %w", err)
	}
	refStarts := 0
	for _, track := range ref.Tracks {
		for _, ev := range track {
			if ev.Message.GetNoteStart(nil, nil, nil) {
				refStarts++
			}
		}
	}

	fmt.Printf("note-ons: ours=%d gomidi=%d\n", ourStarts, refStarts)
	fmt.Printf("notes reconstructed: %d\n", ourNotes)
	if ourStarts != refStarts {
		return fmt.Errorf("note-on count mismatch: %d vs %d", ourStarts, refStarts)
	}
	fmt.Println("OK")
	return nil
}

// noteStartCounter counts note-ons with nonzero velocity.
type noteStartCounter struct {
	n *int
}

func (c *noteStartCounter) NoteOn(delta uint32, channel, note, velocity uint8) {
	if velocity > 0 {
		*c.n++
	}
}
func (c *noteStartCounter) NoteOff(delta uint32, channel, note, velocity uint8)          {}
func (c *noteStartCounter) PolyAfterTouch(delta uint32, channel, note, pressure uint8)   {}
func (c *noteStartCounter) ControlChange(delta uint32, channel, controller, value uint8) {}
func (c *noteStartCounter) ProgramChange(delta uint32, channel, program uint8)           {}
func (c *noteStartCounter) AfterTouch(delta uint32, channel, pressure uint8)             {}
func (c *noteStartCounter) PitchBend(delta uint32, channel uint8, value uint16)          {}
func (c *noteStartCounter) Meta(delta uint32, typ uint8, data []byte)                    {}
func (c *noteStartCounter) SysEx(delta uint32, data []byte)                              {}
