package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/tiling"
)

// parseArgs parses args into fs and reports whether the command should run.
// When it should not, code is the exit status.
func parseArgs(fs *flag.FlagSet, args []string, maxPositional int) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() > maxPositional {
		if maxPositional == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s takes at most %d argument(s)\n", fs.Name(), maxPositional)
		}
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		fs.PrintDefaults()
	}
	return fs
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func formatReport(name string, r *tiling.Report) string {
	s := fmt.Sprintf("%s: %d of %d windows processed", name, r.Processed, r.Requested)
	if r.Skipped > 0 {
		s += fmt.Sprintf(" (%d skipped)", r.Skipped)
	}
	return s
}

func runOperation(name, description string, args []string, op func(*ipc.Client) (*tiling.Report, error)) int {
	fs := newFlagSet(name, "gridis "+name, description)
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	report, err := op(ipc.NewClient())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatReport(name, report))
	return 0
}

func runToggle(args []string) int {
	fs := newFlagSet("toggle", "gridis toggle", "Flip the daemon's visible flag. Windows are not moved.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	visible, err := ipc.NewClient().Toggle()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("visible: %v\n", visible)
	return 0
}

func runRefresh(args []string) int {
	fs := newFlagSet("refresh", "gridis refresh", "Rediscover top-level application windows.")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	n, err := ipc.NewClient().Refresh()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("windows: %d\n", n)
	return 0
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gridis layout select <index>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Only the two-row grid exists; selecting records the index without moving windows.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "select":
		fs := newFlagSet("select", "gridis layout select <index>", "Record a layout index (>= 0).")
		if code, ok := parseArgs(fs, args[1:], 1); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "select requires <index>")
			return 2
		}
		index, err := parseLayoutIndex(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := ipc.NewClient().SelectLayout(index); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("layout: %d\n", index)
		return 0
	case "help", "-h", "--help":
		printLayoutUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func parseLayoutIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid layout index %q", s)
	}
	if index < 0 {
		return 0, fmt.Errorf("layout index must be >= 0, got %d", index)
	}
	return index, nil
}

// formatUptime renders seconds as a rough duration such as "3 minutes".
func formatUptime(seconds int64) string {
	now := time.Now()
	then := now.Add(-time.Duration(seconds) * time.Second)
	return strings.TrimSpace(humanize.RelTime(then, now, "", ""))
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "gridis status [--json]", "Show daemon status via IPC.")
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("backend:        %s\n", status.Backend)
	fmt.Printf("windows:        %d\n", status.Windows)
	fmt.Printf("visible:        %v\n", status.Visible)
	fmt.Printf("layout_index:   %d\n", status.LayoutIndex)
	fmt.Printf("uptime:         %s\n", formatUptime(status.UptimeSeconds))
	if snap := status.Snapshot; snap != nil {
		fmt.Printf("undo:           %s of %d windows, %s (%s)\n", snap.Op, snap.Windows, humanize.Time(snap.TakenAt), snap.ID)
	} else {
		fmt.Printf("undo:           none\n")
	}
	if last := status.LastReport; last != nil {
		fmt.Printf("last_op:        %s\n", formatReport(string(last.Op), last))
	}
	if status.ConfigPath != "" {
		fmt.Printf("config:         %s\n", status.ConfigPath)
	}
	return 0
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "gridis windows [--json]", "List managed windows in arrangement order.")
	jsonOut := fs.Bool("json", false, "Output windows as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	if len(data.Windows) == 0 {
		fmt.Println("no windows")
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tGEOMETRY\tTITLE")
	for i, win := range data.Windows {
		geometry := win.Rect.String()
		if win.Stale {
			geometry = "(gone)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, win.ID, geometry, win.Title)
	}
	w.Flush()
	return 0
}

func runMonitors(args []string) int {
	fs := newFlagSet("monitors", "gridis monitors [--json]", "List monitors as the daemon sees them.")
	jsonOut := fs.Bool("json", false, "Output monitors as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGEOMETRY\tPRIMARY")
	for _, m := range data.Monitors {
		primary := ""
		if m.Primary {
			primary = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Name, m.Bounds(), primary)
	}
	w.Flush()
	return 0
}

func runPlan(args []string) int {
	fs := newFlagSet("plan", "gridis plan [--count N] [--json]", "Show the two-row grid without moving any window.")
	count := fs.Int("count", 0, "Window count to plan for (default: the daemon's current count)")
	jsonOut := fs.Bool("json", false, "Output the plan as JSON")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}
	if *count < 0 {
		fmt.Fprintln(os.Stderr, "--count must be >= 0")
		return 2
	}

	data, err := ipc.NewClient().GetPlan(*count)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}

	p := data.Plan
	fmt.Printf("area:       %s\n", p.Area)
	fmt.Printf("windows:    %d (top %d, bottom %d)\n", p.Windows, p.FirstRow, p.SecondRow)
	fmt.Printf("row_height: %d\n", p.RowHeight)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCELL")
	for i, cell := range data.Cells {
		fmt.Fprintf(w, "%d\t%s\n", i+1, cell)
	}
	w.Flush()
	return 0
}
