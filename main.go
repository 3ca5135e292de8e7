package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"go-notes/config"
	"go-notes/debug"
	"go-notes/smf"
	"go-notes/theme"
	"go-notes/tui"
)

func main() {
	var (
		useTUI   = flag.Bool("tui", false, "open the piano-roll viewer")
		asJSON   = flag.Bool("json", false, "print notes as JSON")
		sortFlag = flag.String("sort", "", "note order: emission or onset")
		channel  = flag.Int("channel", -1, "only collect notes from this channel (0-15)")
		events   = flag.Bool("events", false, "print the raw decoded event stream instead of notes")
		palette  = flag.String("palette", "", "GPL palette file for the viewer")
		verbose  = flag.Bool("v", false, "verbose logging")
		debugLog = flag.Bool("debug", false, "write a debug log to ~/.config/go-notes")
	)
	flag.Parse()

	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: go-notes [flags] file.mid")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if *debugLog {
		if err := debug.Enable(); err != nil {
			log.WithError(err).Warn("debug log unavailable")
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warn("bad config, using defaults")
		cfg = config.DefaultConfig()
	}
	if *sortFlag != "" {
		cfg.Output.Sort = config.SortOrder(*sortFlag)
	}
	if *palette != "" {
		cfg.Viewer.PalettePath = *palette
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Fatal("cannot open file")
	}
	defer f.Close()

	if *events {
		if err := dumpEvents(f); err != nil {
			log.WithError(err).Fatal("decode failed")
		}
		return
	}

	hdr, tracks, err := readTracks(f, *channel)
	if err != nil {
		log.WithError(err).Fatal("decode failed")
	}
	log.WithFields(log.Fields{
		"format": hdr.Format, "tracks": len(tracks), "division": hdr.Division,
	}).Debug("decoded")

	cfg.LastFile = path
	if err := cfg.Save(); err != nil {
		log.WithError(err).Debug("config not saved")
	}

	if *useTUI {
		th := theme.New(theme.LoadGPLOrDefault(cfg.Viewer.PalettePath))
		m := tui.NewModel(path, hdr, tracks, th, cfg)
		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			log.WithError(err).Fatal("viewer failed")
		}
		return
	}

	printNotes(tracks, cfg, *asJSON)
}

// readTracks decodes every track; with a channel selected, a single
// ChannelCollector serves as the filter since it ignores all other
// channels by construction.
func readTracks(f *os.File, channel int) (smf.Header, [][]smf.Note, error) {
	if channel < 0 {
		return smf.ReadTracks(f)
	}
	var tracks [][]smf.Note
	hdr, err := smf.ReadTracksWith(f, func(track int) smf.Receiver {
		tracks = append(tracks, nil)
		return smf.NewChannelCollector(uint8(channel), func(n smf.Note) {
			tracks[track] = append(tracks[track], n)
		})
	})
	return hdr, tracks, err
}

func printNotes(tracks [][]smf.Note, cfg *config.Config, asJSON bool) {
	var notes []smf.Note
	for _, t := range tracks {
		notes = append(notes, t...)
	}
	if cfg.Output.Sort == config.SortOnset {
		smf.SortByStart(notes)
	}

	if asJSON {
		type jsonNote struct {
			Note       string `json:"note"`
			Number     uint8  `json:"number"`
			Start      uint64 `json:"start"`
			Duration   uint64 `json:"duration"`
			Velocity   uint8  `json:"velocity"`
			Instrument uint8  `json:"instrument"`
		}
		out := make([]jsonNote, len(notes))
		for i, n := range notes {
			out[i] = jsonNote{
				Note:       smf.NoteName(n.Number),
				Number:     n.Number,
				Start:      n.Start,
				Duration:   n.Duration,
				Velocity:   n.Velocity,
				Instrument: n.Instrument,
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.WithError(err).Fatal("encoding notes")
		}
		return
	}

	for _, n := range notes {
		fmt.Printf("%-4s %v\n", smf.NoteName(n.Number), n)
	}
}

// dumpEvents streams every decoded event to stdout with absolute time,
// one receiver per track.
func dumpEvents(f *os.File) error {
	hdr, err := smf.ReadTracksWith(f, func(track int) smf.Receiver {
		fmt.Printf("-- track %d --\n", track)
		return &eventPrinter{}
	})
	if err != nil {
		return err
	}
	fmt.Printf("-- %s --\n", hdr)
	return nil
}

// eventPrinter is a Receiver that logs the raw event stream.
type eventPrinter struct {
	time uint64
}

func (p *eventPrinter) line(delta uint32, format string, args ...any) {
	p.time += uint64(delta)
	fmt.Printf("%8d  %s\n", p.time, fmt.Sprintf(format, args...))
}

func (p *eventPrinter) NoteOn(delta uint32, channel, note, velocity uint8) {
	p.line(delta, "note-on   ch=%-2d %s vel=%d", channel, smf.NoteName(note), velocity)
}

func (p *eventPrinter) NoteOff(delta uint32, channel, note, velocity uint8) {
	p.line(delta, "note-off  ch=%-2d %s vel=%d", channel, smf.NoteName(note), velocity)
}

func (p *eventPrinter) PolyAfterTouch(delta uint32, channel, note, pressure uint8) {
	p.line(delta, "poly-at   ch=%-2d %s pressure=%d", channel, smf.NoteName(note), pressure)
}

func (p *eventPrinter) ControlChange(delta uint32, channel, controller, value uint8) {
	p.line(delta, "cc        ch=%-2d ctrl=%d val=%d", channel, controller, value)
}

func (p *eventPrinter) ProgramChange(delta uint32, channel, program uint8) {
	p.line(delta, "program   ch=%-2d prog=%d", channel, program)
}

func (p *eventPrinter) AfterTouch(delta uint32, channel, pressure uint8) {
	p.line(delta, "aftertouch ch=%-2d pressure=%d", channel, pressure)
}

func (p *eventPrinter) PitchBend(delta uint32, channel uint8, value uint16) {
	p.line(delta, "pitchbend ch=%-2d val=%d", channel, value)
}

func (p *eventPrinter) Meta(delta uint32, typ uint8, data []byte) {
	p.line(delta, "meta      type=0x%02x len=%d", typ, len(data))
}

func (p *eventPrinter) SysEx(delta uint32, data []byte) {
	p.line(delta, "sysex     len=%d", len(data))
}
