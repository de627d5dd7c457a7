package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
)

func planFor(t *testing.T, n int) *ipc.PlanData {
	t.Helper()
	plan, err := tiling.PlanTwoRowGrid(n, platform.RectFromBounds(0, 0, 2560, 1440))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return &ipc.PlanData{Plan: plan, Cells: plan.Cells()}
}

func TestRenderGridPreview_NumbersEveryCell(t *testing.T) {
	lines := renderGridPreview(planFor(t, 6), 40, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasSuffix(lines[11], "╝") {
		t.Fatalf("missing outer border:\n%s", strings.Join(lines, "\n"))
	}

	joined := strings.Join(lines, "\n")
	for _, label := range []string{"1", "2", "3", "4", "5", "6"} {
		if !strings.Contains(joined, label) {
			t.Errorf("preview missing cell %s:\n%s", label, joined)
		}
	}

	// Cells 1-3 sit in the top half, 4-6 in the bottom half.
	top := strings.Join(lines[:6], "\n")
	bottom := strings.Join(lines[6:], "\n")
	if !strings.Contains(top, "1") || !strings.Contains(bottom, "4") || strings.Contains(top, "4") {
		t.Fatalf("rows out of order:\n%s", joined)
	}
}

func TestRenderGridPreview_TooSmall(t *testing.T) {
	lines := renderGridPreview(planFor(t, 2), 4, 2)
	if len(lines) != 2 || strings.TrimSpace(lines[0]) != "" {
		t.Fatalf("expected blank canvas, got %q", lines)
	}
	if lines := renderGridPreview(nil, 10, 3); len(lines) != 3 {
		t.Fatalf("expected blank canvas for nil plan")
	}
}

func TestSummarizePlan(t *testing.T) {
	if got := summarizePlan(planFor(t, 4)); got != "4 tiles • 1280×720 px each" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := summarizePlan(planFor(t, 3)); got != "3 tiles • top 2560×720 • bottom 1280×720" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := summarizePlan(nil); got != "no tiles" {
		t.Fatalf("unexpected summary %q", got)
	}
}
