package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/tiling"
)

// daemonStateMsg carries a fresh status and plan from the daemon.
type daemonStateMsg struct {
	status  *ipc.StatusData
	plan    *ipc.PlanData
	err     error
	planErr error
}

// actionMsg reports the outcome of a button press.
type actionMsg struct {
	text string
	err  error
}

type clearStatusMsg struct{}

// model is the root bubbletea model for the TUI.
type model struct {
	daemon Daemon

	focused Button

	status    *ipc.StatusData
	plan      *ipc.PlanData
	daemonErr error
	planErr   error

	statusText string
	busy       bool

	// Terminal dimensions
	width  int
	height int
}

func newModel(daemon Daemon) model {
	return model{
		daemon:  daemon,
		focused: ButtonArrange,
	}
}

// fetch reads status and the grid preview for the daemon's current window count.
func (m model) fetch() tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		status, err := d.GetStatus()
		if err != nil {
			return daemonStateMsg{err: err}
		}
		plan, planErr := d.GetPlan(0)
		return daemonStateMsg{status: status, plan: plan, planErr: planErr}
	}
}

func runReport(name string, op func() (*tiling.Report, error)) tea.Msg {
	report, err := op()
	if err != nil {
		return actionMsg{err: fmt.Errorf("%s: %w", name, err)}
	}
	text := fmt.Sprintf("%s: %d of %d windows", name, report.Processed, report.Requested)
	if report.Skipped > 0 {
		text += fmt.Sprintf(" (%d skipped)", report.Skipped)
	}
	return actionMsg{text: text}
}

// press runs the daemon call behind b.
func (m model) press(b Button) tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		switch b {
		case ButtonToggle:
			visible, err := d.Toggle()
			if err != nil {
				return actionMsg{err: fmt.Errorf("toggle: %w", err)}
			}
			if visible {
				return actionMsg{text: "toggle: visible"}
			}
			return actionMsg{text: "toggle: hidden"}
		case ButtonArrange:
			return runReport("arrange", d.Arrange)
		case ButtonSwap:
			return runReport("swap", d.SwapMonitors)
		case ButtonUndo:
			return runReport("undo", d.Undo)
		}
		return nil
	}
}

func (m model) refresh() tea.Cmd {
	d := m.daemon
	return func() tea.Msg {
		n, err := d.Refresh()
		if err != nil {
			return actionMsg{err: fmt.Errorf("refresh: %w", err)}
		}
		return actionMsg{text: fmt.Sprintf("refresh: %d windows", n)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.focused = (m.focused - 1 + buttonCount) % buttonCount
			return m, nil
		case "right", "l", "tab":
			m.focused = (m.focused + 1) % buttonCount
			return m, nil
		}

		if m.busy {
			return m, nil
		}
		switch key {
		case "enter", " ":
			m.busy = true
			return m, m.press(m.focused)
		case "r":
			m.busy = true
			return m, m.refresh()
		}
		for b := Button(0); b < buttonCount; b++ {
			if key == b.Shortcut() {
				m.focused = b
				m.busy = true
				return m, m.press(b)
			}
		}

	case actionMsg:
		m.busy = false
		if msg.err != nil {
			m.statusText = fmt.Sprintf("error: %v", msg.err)
		} else {
			m.statusText = msg.text
		}
		return m, tea.Batch(m.fetch(), clearStatusAfter(3*time.Second))

	case daemonStateMsg:
		m.daemonErr = msg.err
		if msg.err != nil {
			m.status = nil
			m.plan = nil
			m.planErr = nil
			return m, nil
		}
		m.status = msg.status
		m.plan = msg.plan
		m.planErr = msg.planErr
		return m, nil

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

// previewHidden reports whether the daemon's visible flag is off.
func (m model) previewHidden() bool {
	return m.status != nil && !m.status.Visible
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	buttonBar := renderButtonBar(m.focused, m.width)
	helpBar := renderHelpBar(m.width)

	var caption string
	switch {
	case m.daemonErr != nil:
		caption = errorStyle.Render(m.daemonErr.Error())
	case m.previewHidden():
		caption = dimStyle.Render("preview hidden (t to show)")
	case m.planErr != nil:
		caption = dimStyle.Render("no grid: " + m.planErr.Error())
	default:
		caption = dimStyle.Render(summarizePlan(m.plan))
	}

	message := dimStyle.Render(m.statusText)
	if m.busy {
		message = dimStyle.Render("working…")
	}

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(buttonBar) + lipgloss.Height(helpBar) +
		lipgloss.Height(caption) + lipgloss.Height(message) + 1
	previewHeight := m.height - usedHeight
	if previewHeight < 3 {
		previewHeight = 3
	}
	previewWidth := m.width - 2
	if previewWidth < 5 {
		previewWidth = 5
	}

	var preview []string
	if m.daemonErr == nil && m.planErr == nil && !m.previewHidden() {
		preview = renderGridPreview(m.plan, previewWidth, previewHeight)
	} else {
		preview = emptyCanvas(previewWidth, previewHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		titleStyle.Render("gridis"),
		buttonBar,
		lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, preview...)),
		caption,
		message,
		helpBar,
	)
}
