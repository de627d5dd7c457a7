package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
)

type fakeDaemon struct {
	calls    []string
	visible  bool
	layout   int
	planFor  int
	undoErr  error
	snapshot *tiling.SnapshotInfo
}

func (f *fakeDaemon) report(op tiling.Op) *tiling.Report {
	return &tiling.Report{Op: op, Requested: 3, Processed: 2, Skipped: 1}
}

func (f *fakeDaemon) Arrange() (*tiling.Report, error) {
	f.calls = append(f.calls, "arrange")
	return f.report(tiling.OpArrange), nil
}

func (f *fakeDaemon) SwapMonitors() (*tiling.Report, error) {
	f.calls = append(f.calls, "swap")
	return f.report(tiling.OpSwap), nil
}

func (f *fakeDaemon) Undo() (*tiling.Report, error) {
	f.calls = append(f.calls, "undo")
	if f.undoErr != nil {
		return nil, f.undoErr
	}
	return f.report(tiling.OpUndo), nil
}

func (f *fakeDaemon) Toggle() (bool, error) {
	f.calls = append(f.calls, "toggle")
	f.visible = !f.visible
	return f.visible, nil
}

func (f *fakeDaemon) SelectLayout(index int) error {
	f.calls = append(f.calls, "select")
	f.layout = index
	return nil
}

func (f *fakeDaemon) Refresh() (int, error) {
	f.calls = append(f.calls, "refresh")
	return 4, nil
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{
		Status: tiling.Status{
			Backend:     "memory",
			Windows:     4,
			Visible:     f.visible,
			LayoutIndex: f.layout,
			Snapshot:    f.snapshot,
		},
		UptimeSeconds: 90,
		DaemonRunning: true,
	}, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: []platform.Monitor{
		{ID: 0, Name: "primary", Width: 2560, Height: 1440, Primary: true},
		{ID: 1, Name: "above", Y: -1080, Width: 1920, Height: 1080},
	}}, nil
}

func (f *fakeDaemon) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: []tiling.WindowInfo{
		{ID: 0x2a, Title: "editor", Rect: platform.RectFromBounds(10, 20, 800, 600)},
	}}, nil
}

func (f *fakeDaemon) GetPlan(count int) (*ipc.PlanData, error) {
	f.planFor = count
	plan, err := tiling.PlanTwoRowGrid(count, platform.RectFromBounds(0, 0, 2560, 1440))
	if err != nil {
		return nil, err
	}
	return &ipc.PlanData{Plan: plan, Cells: plan.Cells()}, nil
}

func TestHandlers_Operations(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)
	ctx := context.Background()

	_, out, err := s.handleArrange(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if out.Op != "arrange" || out.Processed != 2 || out.Skipped != 1 {
		t.Fatalf("unexpected arrange output %+v", out)
	}

	if _, out, err = s.handleSwapMonitors(ctx, nil, EmptyInput{}); err != nil || out.Op != "swap" {
		t.Fatalf("swap: %+v %v", out, err)
	}

	d.undoErr = tiling.ErrNoSnapshot
	_, _, err = s.handleUndo(ctx, nil, EmptyInput{})
	if !errors.Is(err, tiling.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	want := []string{"arrange", "swap", "undo"}
	if strings.Join(d.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", d.calls, want)
	}
}

func TestHandlers_ToggleSelectRefresh(t *testing.T) {
	d := &fakeDaemon{visible: true}
	s := NewServer(d)
	ctx := context.Background()

	_, toggled, err := s.handleToggle(ctx, nil, EmptyInput{})
	if err != nil || toggled.Visible {
		t.Fatalf("toggle: %+v %v", toggled, err)
	}

	if _, _, err := s.handleSelectLayout(ctx, nil, SelectLayoutInput{Index: -2}); err == nil {
		t.Fatalf("expected error for negative index")
	}
	if len(d.calls) != 1 {
		t.Fatalf("negative index must not reach the daemon, calls %v", d.calls)
	}
	if _, out, err := s.handleSelectLayout(ctx, nil, SelectLayoutInput{Index: 2}); err != nil || out.Index != 2 || d.layout != 2 {
		t.Fatalf("select: %+v %v (daemon layout %d)", out, err, d.layout)
	}

	_, refreshed, err := s.handleRefresh(ctx, nil, EmptyInput{})
	if err != nil || refreshed.Windows != 4 {
		t.Fatalf("refresh: %+v %v", refreshed, err)
	}
}

func TestHandlers_Introspection(t *testing.T) {
	taken := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &fakeDaemon{snapshot: &tiling.SnapshotInfo{ID: "01HX", Op: tiling.OpArrange, TakenAt: taken, Windows: 4}}
	s := NewServer(d)
	ctx := context.Background()

	_, windows, err := s.handleListWindows(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	if len(windows.Windows) != 1 {
		t.Fatalf("expected one window, got %+v", windows)
	}
	w := windows.Windows[0]
	if w.ID != "0x2a" || w.X != 10 || w.Y != 20 || w.Width != 800 || w.Height != 600 {
		t.Fatalf("unexpected window %+v", w)
	}

	_, monitors, err := s.handleListMonitors(ctx, nil, EmptyInput{})
	if err != nil || len(monitors.Monitors) != 2 || !monitors.Monitors[0].Primary || monitors.Monitors[1].Y != -1080 {
		t.Fatalf("list monitors: %+v %v", monitors, err)
	}

	_, status, err := s.handleStatus(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Backend != "memory" || status.UptimeSeconds != 90 || status.Snapshot == nil || status.Snapshot.Op != "arrange" || !status.Snapshot.TakenAt.Equal(taken) {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.LastReport != nil {
		t.Fatalf("expected no last report, got %+v", status.LastReport)
	}

	_, plan, err := s.handlePlan(ctx, nil, PlanInput{Count: 5})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if d.planFor != 5 || plan.FirstRow != 2 || plan.SecondRow != 3 || len(plan.Cells) != 5 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if plan.Cells[2].Y != 720 || plan.Cells[2].X != 0 || plan.Cells[2].Width != 853 {
		t.Fatalf("third cell should start the second row, got %+v", plan.Cells[2])
	}

	if _, _, err := s.handlePlan(ctx, nil, PlanInput{Count: -1}); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

func TestServer_ListsTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeDaemon{})

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"arrange", "swap_monitors", "undo", "toggle", "select_layout", "refresh", "list_windows", "list_monitors", "status", "plan"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}
