// ABOUTME: Bubbletea model for the projector TUI
// ABOUTME: Shows engine state, session progress and recent log lines
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Bwooce/soundprojector/internal/engine"
)

// StatusMsg carries an engine snapshot into the model.
type StatusMsg engine.Status

// LogMsg appends a line to the TUI's log pane.
type LogMsg string

const logLines = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model represents the TUI state.
type Model struct {
	status    engine.Status
	requested uint32 // requested carrier frequency
	logs      []string
	control   *Control

	width  int
	height int
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.status = engine.Status(msg)
	case LogMsg:
		m.logs = append(m.logs, string(msg))
		if len(m.logs) > logLines {
			m.logs = m.logs[len(m.logs)-logLines:]
		}
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "t":
		if m.control != nil {
			select {
			case m.control.Trigger <- struct{}{}:
			default:
			}
		}
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Sound Projector"))
	b.WriteString("\n\n")

	if m.status.State == engine.StatePlaying {
		b.WriteString(playingStyle.Render("▶ PLAYING"))
		b.WriteString(fmt.Sprintf("  %s", m.status.File))
		if m.status.Length > 0 {
			b.WriteString(fmt.Sprintf("  %d/%d bytes (%.0f%%)",
				m.status.Position, m.status.Length,
				100*float64(m.status.Position)/float64(m.status.Length)))
		}
		b.WriteString("\n")
		b.WriteString(idleStyle.Render(fmt.Sprintf("  session %s", m.status.SessionID)))
	} else {
		b.WriteString(idleStyle.Render("■ IDLE (waiting for trigger)"))
	}
	b.WriteString("\n\n")

	carrier := fmt.Sprintf("Carrier: %d Hz", m.status.CarrierHz)
	if m.requested != 0 && m.status.CarrierHz != 0 && m.status.CarrierHz != m.requested {
		carrier += warnStyle.Render(fmt.Sprintf(" (requested %d Hz)", m.requested))
	}
	b.WriteString(carrier)
	b.WriteString(fmt.Sprintf("   Samples: %d\n\n", m.status.Ticks))

	if len(m.logs) > 0 {
		b.WriteString(idleStyle.Render(strings.Join(m.logs, "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("t: trigger playback   q: quit"))

	return b.String()
}
