// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the key-driven control channels
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control carries TUI key events out to the daemon.
type Control struct {
	Trigger chan struct{}
	Quit    chan struct{}
}

// NewControl creates the control channels.
func NewControl() *Control {
	return &Control{
		Trigger: make(chan struct{}, 4),
		Quit:    make(chan struct{}, 1),
	}
}

// NewModel creates a TUI model. requestedHz is shown against the achieved
// carrier frequency when they differ.
func NewModel(control *Control, requestedHz uint32) Model {
	return Model{
		control:   control,
		requested: requestedHz,
	}
}

// Run starts the TUI program.
func Run(control *Control, requestedHz uint32) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(control, requestedHz), tea.WithAltScreen())
	return p, nil
}
