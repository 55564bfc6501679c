// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// QuitMsg is sent on Controls.Quit when the user leaves the TUI
type QuitMsg struct{}

// Controls carries user requests out of the TUI
type Controls struct {
	Quit chan QuitMsg
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Quit: make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		state:    "idle",
		controls: controls,
	}
}

// Run creates the TUI program; the caller starts it with Run
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
