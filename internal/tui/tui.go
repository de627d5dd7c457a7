package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/tiling"
)

// Daemon is the part of the IPC client the control panel drives.
type Daemon interface {
	Arrange() (*tiling.Report, error)
	SwapMonitors() (*tiling.Report, error)
	Undo() (*tiling.Report, error)
	Toggle() (bool, error)
	Refresh() (int, error)
	GetStatus() (*ipc.StatusData, error)
	GetPlan(count int) (*ipc.PlanData, error)
}

// TUI is the interactive control panel.
type TUI struct {
	daemon Daemon
}

// New creates a new TUI instance.
func New(daemon Daemon) *TUI {
	return &TUI{daemon: daemon}
}

// Run starts the TUI main loop.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(t.daemon), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
