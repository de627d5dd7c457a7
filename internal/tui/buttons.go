package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/1broseidon/gridis/internal/ipc"
)

// Button identifies one of the panel's buttons.
type Button int

const (
	ButtonToggle Button = iota
	ButtonArrange
	ButtonSwap
	ButtonUndo
	buttonCount // sentinel for iteration
)

func (b Button) String() string {
	switch b {
	case ButtonToggle:
		return "Toggle"
	case ButtonArrange:
		return "Arrange"
	case ButtonSwap:
		return "Swap"
	case ButtonUndo:
		return "Undo"
	default:
		return "?"
	}
}

// Shortcut is the key that presses b directly.
func (b Button) Shortcut() string {
	switch b {
	case ButtonToggle:
		return "t"
	case ButtonArrange:
		return "a"
	case ButtonSwap:
		return "s"
	case ButtonUndo:
		return "u"
	default:
		return ""
	}
}

var (
	focusedButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 2)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 2)

	buttonBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	buttonGap = lipgloss.NewStyle().
			SetString(" ")
)

// renderButtonBar renders the buttons with focused highlighted.
func renderButtonBar(focused Button, width int) string {
	var buttons []string
	for b := Button(0); b < buttonCount; b++ {
		label := b.Shortcut() + ":" + b.String()
		if b == focused {
			buttons = append(buttons, focusedButtonStyle.Render(label))
		} else {
			buttons = append(buttons, buttonStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(buttons, buttonGap.Render())...)
	return buttonBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// statusLine summarizes daemon state for the status bar.
func statusLine(status *ipc.StatusData, now time.Time) string {
	if status == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		return dot + " daemon not running"
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	visible := "hidden"
	if status.Visible {
		visible = "visible"
	}
	parts := []string{
		dot + " " + status.Backend,
		fmt.Sprintf("%d windows", status.Windows),
		visible,
		fmt.Sprintf("layout:%d", status.LayoutIndex),
	}
	if snap := status.Snapshot; snap != nil {
		parts = append(parts, fmt.Sprintf("undo:%s %s", snap.Op, humanize.RelTime(snap.TakenAt, now, "ago", "from now")))
	} else {
		parts = append(parts, "undo:none")
	}
	return strings.Join(parts, "  ")
}

func renderStatusBar(status *ipc.StatusData, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(statusLine(status, time.Now()))
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(width int) string {
	help := "←/→: select  enter/space: press  t/a/s/u: buttons  r: refresh  q/ctrl-c: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
