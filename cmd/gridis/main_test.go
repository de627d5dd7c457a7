package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/gridis/internal/config"
	"github.com/1broseidon/gridis/internal/tiling"
)

func TestPrintMainUsage_ListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printMainUsage(&buf)
	out := buf.String()
	for _, cmd := range []string{"daemon", "status", "arrange", "swap", "undo", "toggle", "refresh", "layout select", "windows", "monitors", "plan", "config validate", "tui", "mcp serve"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("usage missing %q", cmd)
		}
	}
}

func TestParseLayoutIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3", 3, false},
		{"-1", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLayoutIndex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLayoutIndex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLayoutIndex(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "now"},
		{90, "1 minute"},
		{7200, "2 hours"},
	}
	for _, tt := range tests {
		if got := formatUptime(tt.seconds); got != tt.want {
			t.Errorf("formatUptime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatReport(t *testing.T) {
	r := &tiling.Report{Op: tiling.OpArrange, Requested: 6, Processed: 5, Skipped: 1}
	if got := formatReport("arrange", r); got != "arrange: 5 of 6 windows processed (1 skipped)" {
		t.Fatalf("unexpected report %q", got)
	}
	r.Skipped = 0
	r.Processed = 6
	if got := formatReport("arrange", r); got != "arrange: 6 of 6 windows processed" {
		t.Fatalf("unexpected report %q", got)
	}
}

func TestLoadConfigAt_SourcesForExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("swap:\n  top_boundary: -40\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := loadConfigAt(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	value, src, err := config.Explain(res, "swap.top_boundary")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != -40 {
		t.Fatalf("expected -40, got %v", value)
	}
	if got := formatSource(src); !strings.HasPrefix(got, "file:") || !strings.HasSuffix(got, ":2:17") {
		t.Fatalf("unexpected source %q", got)
	}

	_, src, err = config.Explain(res, "swap.classify")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if got := formatSource(src); got != "default" {
		t.Fatalf("expected default source, got %q", got)
	}
}
