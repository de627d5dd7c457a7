package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
)

type fakeDaemon struct {
	calls     []string
	visible   bool
	windows   int
	statusErr error
}

func (f *fakeDaemon) report(name string, op tiling.Op) (*tiling.Report, error) {
	f.calls = append(f.calls, name)
	return &tiling.Report{Op: op, Requested: f.windows, Processed: f.windows}, nil
}

func (f *fakeDaemon) Arrange() (*tiling.Report, error) { return f.report("arrange", tiling.OpArrange) }
func (f *fakeDaemon) SwapMonitors() (*tiling.Report, error) {
	return f.report("swap", tiling.OpSwap)
}
func (f *fakeDaemon) Undo() (*tiling.Report, error) {
	f.calls = append(f.calls, "undo")
	return nil, errors.New("daemon error: Failed to undo: nothing to undo")
}
func (f *fakeDaemon) Toggle() (bool, error) {
	f.calls = append(f.calls, "toggle")
	f.visible = !f.visible
	return f.visible, nil
}
func (f *fakeDaemon) Refresh() (int, error) {
	f.calls = append(f.calls, "refresh")
	return f.windows, nil
}
func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &ipc.StatusData{
		Status:        tiling.Status{Backend: "memory", Windows: f.windows, Visible: f.visible},
		DaemonRunning: true,
	}, nil
}
func (f *fakeDaemon) GetPlan(count int) (*ipc.PlanData, error) {
	if count == 0 {
		count = f.windows
	}
	plan, err := tiling.PlanTwoRowGrid(count, platform.RectFromBounds(0, 0, 2560, 1440))
	if err != nil {
		return nil, err
	}
	return &ipc.PlanData{Plan: plan, Cells: plan.Cells()}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and runs the returned command once, feeding its
// message back when it is not a batch or tick.
func step(t *testing.T, m model, msg tea.Msg) (model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	return m, out
}

func TestModel_ShortcutsPressButtons(t *testing.T) {
	d := &fakeDaemon{windows: 4}
	m := newModel(d)

	m, out := step(t, m, key("a"))
	if !m.busy || m.focused != ButtonArrange {
		t.Fatalf("expected busy with arrange focused, got busy=%v focused=%s", m.busy, m.focused)
	}
	act, ok := out.(actionMsg)
	if !ok {
		t.Fatalf("expected actionMsg, got %T", out)
	}
	if act.err != nil || act.text != "arrange: 4 of 4 windows" {
		t.Fatalf("unexpected action result %+v", act)
	}

	next, _ := m.Update(act)
	m = next.(model)
	if m.busy || m.statusText != "arrange: 4 of 4 windows" {
		t.Fatalf("unexpected model after action: busy=%v text=%q", m.busy, m.statusText)
	}

	m, out = step(t, m, key("t"))
	if act := out.(actionMsg); act.text != "toggle: visible" {
		t.Fatalf("unexpected toggle result %+v", act)
	}
	m.busy = false

	m, out = step(t, m, key("u"))
	if act := out.(actionMsg); act.err == nil || !strings.Contains(act.err.Error(), "nothing to undo") {
		t.Fatalf("expected undo error, got %+v", act)
	}
	next, _ = m.Update(out)
	m = next.(model)
	if !strings.HasPrefix(m.statusText, "error: undo:") {
		t.Fatalf("expected error status text, got %q", m.statusText)
	}

	if got := strings.Join(d.calls, ","); got != "arrange,toggle,undo" {
		t.Fatalf("calls = %s", got)
	}
}

func TestModel_FocusAndEnter(t *testing.T) {
	d := &fakeDaemon{windows: 2}
	m := newModel(d)

	m, _ = step(t, m, key("right"))
	if m.focused != ButtonSwap {
		t.Fatalf("expected swap focused, got %s", m.focused)
	}
	m, _ = step(t, m, key("right"))
	m, _ = step(t, m, key("right"))
	if m.focused != ButtonToggle {
		t.Fatalf("focus should wrap to toggle, got %s", m.focused)
	}
	m, _ = step(t, m, key("left"))
	if m.focused != ButtonUndo {
		t.Fatalf("focus should wrap back to undo, got %s", m.focused)
	}

	m, _ = step(t, m, key("left"))
	m, out := step(t, m, key("enter"))
	if act := out.(actionMsg); act.text != "swap: 2 of 2 windows" {
		t.Fatalf("unexpected swap result %+v", act)
	}

	// A second press while busy is ignored.
	_, out = step(t, m, key("enter"))
	if out != nil {
		t.Fatalf("expected no command while busy, got %T", out)
	}
	if len(d.calls) != 1 {
		t.Fatalf("expected one daemon call, got %v", d.calls)
	}
}

func TestModel_RefreshAndState(t *testing.T) {
	d := &fakeDaemon{windows: 6}
	m := newModel(d)

	state := m.Init()()
	next, _ := m.Update(state)
	m = next.(model)
	if m.status == nil || m.status.Windows != 6 || m.plan == nil || len(m.plan.Cells) != 6 {
		t.Fatalf("unexpected state after init: %+v %+v", m.status, m.plan)
	}

	_, out := step(t, m, key("r"))
	if act := out.(actionMsg); act.text != "refresh: 6 windows" {
		t.Fatalf("unexpected refresh result %+v", act)
	}

	d.statusErr = errors.New("is the daemon running?")
	next, _ = m.Update(m.fetch()())
	m = next.(model)
	if m.status != nil || m.daemonErr == nil {
		t.Fatalf("expected daemon error state")
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(model)
	if !strings.Contains(m.View(), "is the daemon running?") {
		t.Fatalf("view should show daemon error")
	}
}

func TestStatusLine(t *testing.T) {
	if got := statusLine(nil, time.Now()); !strings.Contains(got, "daemon not running") {
		t.Fatalf("unexpected offline status %q", got)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	status := &ipc.StatusData{Status: tiling.Status{
		Backend:  "x11",
		Windows:  3,
		Visible:  true,
		Snapshot: &tiling.SnapshotInfo{Op: tiling.OpSwap, TakenAt: now.Add(-2 * time.Minute), Windows: 3},
	}}
	got := statusLine(status, now)
	for _, want := range []string{"x11", "3 windows", "visible", "undo:swap 2 minutes ago"} {
		if !strings.Contains(got, want) {
			t.Errorf("status line %q missing %q", got, want)
		}
	}
}

func TestModel_ToggleHidesPreview(t *testing.T) {
	d := &fakeDaemon{windows: 4, visible: true}
	m := newModel(d)

	next, _ := m.Update(m.Init()())
	m = next.(model)
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(model)

	view := m.View()
	if !strings.Contains(view, "4 tiles") || !strings.Contains(view, "╔") {
		t.Fatalf("expected grid preview while visible:\n%s", view)
	}

	m, out := step(t, m, key("t"))
	if act := out.(actionMsg); act.text != "toggle: hidden" {
		t.Fatalf("unexpected toggle result %+v", act)
	}
	next, _ = m.Update(out)
	m = next.(model)
	next, _ = m.Update(m.fetch()())
	m = next.(model)

	view = m.View()
	if strings.Contains(view, "4 tiles") || strings.Contains(view, "╔") {
		t.Fatalf("preview still rendered while hidden:\n%s", view)
	}
	if !strings.Contains(view, "preview hidden") {
		t.Fatalf("expected hidden caption:\n%s", view)
	}

	m, out = step(t, m, key("t"))
	next, _ = m.Update(out)
	m = next.(model)
	next, _ = m.Update(m.fetch()())
	m = next.(model)
	if !strings.Contains(m.View(), "4 tiles") {
		t.Fatalf("preview should return after toggling back")
	}
}
