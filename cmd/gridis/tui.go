package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/tui"
)

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: gridis tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Control panel for a running daemon with a live preview of the grid.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  ←/→, h/l   Select button")
		fmt.Fprintln(os.Stderr, "  Enter      Press selected button")
		fmt.Fprintln(os.Stderr, "  t a s u    Toggle, Arrange, Swap, Undo")
		fmt.Fprintln(os.Stderr, "  r          Refresh windows")
		fmt.Fprintln(os.Stderr, "  q, Esc     Quit")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	if err := tui.New(ipc.NewClient()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
