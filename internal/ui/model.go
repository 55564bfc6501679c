// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// Model represents the TUI state
type Model struct {
	// Module
	title    string
	artist   string
	tracker  string
	typeLong string
	message  string

	// Stream
	backend    string
	sampleRate int
	channels   int
	format     string

	// Playback
	state    string
	position time.Duration
	duration time.Duration
	frames   int64

	// Faults
	lastError string

	// Debug
	showMessage bool

	// Dimensions
	width  int
	height int

	controls *Controls
}

// StatusMsg updates TUI state; zero fields leave the current value alone
type StatusMsg struct {
	State      string
	Title      string
	Artist     string
	Tracker    string
	TypeLong   string
	Message    string
	Backend    string
	SampleRate int
	Channels   int
	Format     string
	Position   time.Duration
	Duration   time.Duration
	Frames     int64
	Error      string
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
		if msg.State == "finished" || msg.State == "failed" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderModuleInfo()
	s += m.renderProgress()

	if m.showMessage {
		s += m.renderMessage()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders playback state and output format
func (m Model) renderHeader() string {
	output := "Not negotiated"
	if m.sampleRate > 0 {
		output = fmt.Sprintf("%dHz %s %s", m.sampleRate, channelName(m.channels), m.format)
	}

	return fmt.Sprintf(`┌─ Module Player ──────────────────────────────────────┐
│ State:  %s │
│ Output: %s │
│ Device: %s │
├──────────────────────────────────────────────────────┤
`, fit(m.state, 44), fit(output, 44), fit(m.backend, 44))
}

// renderModuleInfo renders module metadata
func (m Model) renderModuleInfo() string {
	if m.title == "" && m.typeLong == "" {
		return "│   (No module loaded)                                 │\n"
	}

	title := m.title
	if title == "" {
		title = "(untitled)"
	}

	s := fmt.Sprintf("│   Title:   %s │\n", fit(title, 41))
	if m.artist != "" {
		s += fmt.Sprintf("│   Artist:  %s │\n", fit(m.artist, 41))
	}
	s += fmt.Sprintf("│   Format:  %s │\n", fit(m.typeLong, 41))
	if m.tracker != "" {
		s += fmt.Sprintf("│   Tracker: %s │\n", fit(m.tracker, 41))
	}
	return s
}

// renderProgress renders position against duration
func (m Model) renderProgress() string {
	bar := renderBar(m.position, m.duration, 30)
	s := fmt.Sprintf("│                                                      │\n"+
		"│ [%s] %s / %s%-6s │\n",
		bar, formatDuration(m.position), formatDuration(m.duration), "")
	if m.lastError != "" {
		s += fmt.Sprintf("│ Error: %s │\n", fit(m.lastError, 45))
	}
	return s
}

// renderMessage renders the module's embedded message text
func (m Model) renderMessage() string {
	s := "├──────────────────────────────────────────────────────┤\n"
	lines := strings.Split(strings.TrimRight(m.message, "\n"), "\n")
	if m.message == "" {
		lines = []string{"(no message)"}
	}
	for _, line := range lines {
		s += fmt.Sprintf("│ %s │\n", fit(line, 52))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ i:Message  q:Quit                                    │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "i":
		m.showMessage = !m.showMessage
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Title != "" || msg.TypeLong != "" {
		m.title = msg.Title
		m.artist = msg.Artist
		m.tracker = msg.Tracker
		m.typeLong = msg.TypeLong
		m.message = msg.Message
	}
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.format = msg.Format
	}
	if msg.Duration != 0 {
		m.duration = msg.Duration
	}
	if msg.Frames != 0 {
		m.frames = msg.Frames
		m.position = msg.Position
	}
	if msg.Error != "" {
		m.lastError = msg.Error
	}
}

// Utility functions
func renderBar(value, max time.Duration, width int) string {
	filled := 0
	if max > 0 {
		filled = int(int64(value) * int64(width) / int64(max))
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// cells measures text for the box layout, with ambiguous-width runes narrow
var cells = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// fit cuts s to width terminal cells and pads it to exactly that width
func fit(s string, width int) string {
	return cells.FillRight(cells.Truncate(s, width, "..."), width)
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
