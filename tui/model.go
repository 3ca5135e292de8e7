package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-notes/config"
	"go-notes/debug"
	"go-notes/smf"
	"go-notes/theme"
	"go-notes/widgets"
)

// Zoom levels: ticks per grid column
var zoomTicks = []uint64{24, 48, 96, 120, 240, 480, 960, 1920}

const gutterWidth = 4

type Model struct {
	Path   string
	Header smf.Header
	Tracks [][]smf.Note
	Theme  *theme.Theme

	track    int // -1 = all tracks merged
	notes    []smf.Note
	byPitch  map[uint8][]smf.Note
	lastTick uint64

	zoom     int
	originX  uint64 // leftmost visible tick
	topPitch int    // pitch shown on the top grid row
	width    int
	height   int
	showHelp bool
	quitting bool
}

func NewModel(path string, hdr smf.Header, tracks [][]smf.Note, th *theme.Theme, cfg *config.Config) Model {
	m := Model{
		Path:     path,
		Header:   hdr,
		Tracks:   tracks,
		Theme:    th,
		track:    -1,
		zoom:     clamp(cfg.Viewer.ZoomLevel, 0, len(zoomTicks)-1),
		topPitch: 72,
	}
	m.selectTrack(-1)
	return m
}

// selectTrack rebuilds the visible note set: one track, or all tracks
// flattened. Notes are re-sorted to onset order for display.
func (m *Model) selectTrack(track int) {
	m.track = track
	m.notes = m.notes[:0]
	if track < 0 {
		for _, t := range m.Tracks {
			m.notes = append(m.notes, t...)
		}
	} else if track < len(m.Tracks) {
		m.notes = append(m.notes, m.Tracks[track]...)
	}
	smf.SortByStart(m.notes)

	m.byPitch = make(map[uint8][]smf.Note)
	m.lastTick = 0
	top := 0
	for _, n := range m.notes {
		m.byPitch[n.Number] = append(m.byPitch[n.Number], n)
		if end := n.Start + n.Duration; end > m.lastTick {
			m.lastTick = end
		}
		if int(n.Number) > top {
			top = int(n.Number)
		}
	}
	if top > 0 {
		m.topPitch = clamp(top+2, 12, 127)
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		ticksPerCol := zoomTicks[m.zoom]
		step := ticksPerCol * 8

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "h", "left":
			if m.originX >= step {
				m.originX -= step
			} else {
				m.originX = 0
			}
			debug.LogEvery(16, "tui", "scroll x=%d", m.originX)

		case "l", "right":
			if m.originX+step < m.lastTick {
				m.originX += step
			}
			debug.LogEvery(16, "tui", "scroll x=%d", m.originX)

		case "k", "up":
			m.topPitch = clamp(m.topPitch+4, 12, 127)

		case "j", "down":
			m.topPitch = clamp(m.topPitch-4, 12, 127)

		case "+", "=":
			if m.zoom > 0 {
				m.zoom--
			}

		case "-", "_":
			if m.zoom < len(zoomTicks)-1 {
				m.zoom++
			}

		case "g", "home":
			m.originX = 0

		case "G", "end":
			cols := uint64(m.gridCols())
			if m.lastTick > cols*ticksPerCol {
				m.originX = m.lastTick - cols*ticksPerCol
			}

		case "t":
			next := m.track + 1
			if next >= len(m.Tracks) {
				next = -1
			}
			m.selectTrack(next)
			debug.Log("tui", "track=%d notes=%d", m.track, len(m.notes))

		case "?":
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m Model) gridCols() int {
	cols := m.width - gutterWidth - 1
	if cols < 16 {
		cols = 16
	}
	return cols
}

func (m Model) gridRows() int {
	rows := m.height - 5 // header, blank, help, margin
	if m.showHelp {
		rows -= 10
	}
	if rows < 8 {
		rows = 8
	}
	if rows > 48 {
		rows = 48
	}
	return rows
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	trackLabel := "all"
	if m.track >= 0 {
		trackLabel = fmt.Sprintf("%d/%d", m.track+1, len(m.Tracks))
	}
	header := headerStyle.Render(fmt.Sprintf("go-notes  %s  track:%s  %d notes  %dt/col  @%d",
		m.Path, trackLabel, len(m.notes), zoomTicks[m.zoom], m.originX))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.viewGrid())
	out.WriteString("\n")

	help := dimStyle.Render("hjkl:scroll  +/-:zoom  g/G:start/end  t:track  ?:help  q:quit")
	out.WriteString(help)

	if m.showHelp {
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(helpSections())))
	}

	return out.String()
}

// viewGrid renders the piano roll: one row per pitch descending from
// topPitch, one column per zoomTicks[zoom] ticks from originX.
func (m Model) viewGrid() string {
	sym := m.Theme.Symbols
	ticksPerCol := zoomTicks[m.zoom]
	cols := m.gridCols()
	rows := m.gridRows()

	muted := m.Theme.Palette.Lookup(theme.RoleMuted)
	fg := m.Theme.Palette.Lookup(theme.RoleFG)

	var lines []string
	for row := 0; row < rows; row++ {
		pitch := m.topPitch - row
		if pitch < 0 {
			break
		}

		label := ""
		labelColor := muted
		if pitch%12 == 0 { // label octaves at C
			label = smf.NoteName(uint8(pitch))
			labelColor = fg
		} else if isBlackKey(pitch) {
			label = string(sym.BlackKey)
		}
		var line strings.Builder
		line.WriteString(widgets.RenderGutterLabel(label, gutterWidth-1, labelColor))

		for col := 0; col < cols; col++ {
			winStart := m.originX + uint64(col)*ticksPerCol
			winEnd := winStart + ticksPerCol

			note, ok := noteAt(m.byPitch[uint8(pitch)], winStart, winEnd)
			if !ok {
				glyph := sym.GridBlank
				if col%8 == 0 {
					glyph = sym.GridBeat
				}
				line.WriteString(widgets.RenderCell(muted, glyph))
				continue
			}
			glyph := sym.NoteBody
			if note.Start >= winStart {
				glyph = sym.NoteOnset
			}
			line.WriteString(widgets.RenderCell(m.Theme.Palette.Lookup(float64(note.Velocity)/127.0), glyph))
		}
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

// noteAt finds a note on this pitch sounding anywhere in [start, end).
// Notes are in onset order, so the scan can stop at the first onset
// past the window.
func noteAt(notes []smf.Note, start, end uint64) (smf.Note, bool) {
	for _, n := range notes {
		if n.Start >= end {
			break
		}
		noteEnd := n.Start + n.Duration
		if n.Duration == 0 {
			noteEnd = n.Start + 1 // zero-length notes still get one cell
		}
		if noteEnd > start {
			return n, true
		}
	}
	return smf.Note{}, false
}

func helpSections() []widgets.KeySection {
	return []widgets.KeySection{
		{
			Title: "Navigation",
			Keys: []widgets.KeyBinding{
				{Key: "h/l, ←/→", Desc: "scroll time"},
				{Key: "j/k, ↓/↑", Desc: "scroll pitch"},
				{Key: "g / G", Desc: "jump to start / end"},
			},
		},
		{
			Title: "View",
			Keys: []widgets.KeyBinding{
				{Key: "+ / -", Desc: "zoom in / out"},
				{Key: "t", Desc: "cycle track (then all)"},
				{Key: "?", Desc: "toggle this help"},
				{Key: "q", Desc: "quit"},
			},
		},
	}
}

func isBlackKey(pitch int) bool {
	switch pitch % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
