package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridis/internal/tiling"
)

func reportOutput(r tiling.Report) ReportOutput {
	return ReportOutput{
		Op:        string(r.Op),
		Requested: r.Requested,
		Processed: r.Processed,
		Skipped:   r.Skipped,
	}
}

func (s *Server) runOperation(name string, op func() (*tiling.Report, error)) (*mcpsdk.CallToolResult, ReportOutput, error) {
	report, err := op()
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("%s: %w", name, err)
	}
	return nil, reportOutput(*report), nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ReportOutput, error) {
	return s.runOperation("arrange", s.daemon.Arrange)
}

func (s *Server) handleSwapMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ReportOutput, error) {
	return s.runOperation("swap_monitors", s.daemon.SwapMonitors)
}

func (s *Server) handleUndo(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ReportOutput, error) {
	return s.runOperation("undo", s.daemon.Undo)
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ToggleOutput, error) {
	visible, err := s.daemon.Toggle()
	if err != nil {
		return nil, ToggleOutput{}, fmt.Errorf("toggle: %w", err)
	}
	return nil, ToggleOutput{Visible: visible}, nil
}

func (s *Server) handleSelectLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SelectLayoutInput) (*mcpsdk.CallToolResult, SelectLayoutOutput, error) {
	if args.Index < 0 {
		return nil, SelectLayoutOutput{}, fmt.Errorf("index must be >= 0, got %d", args.Index)
	}
	if err := s.daemon.SelectLayout(args.Index); err != nil {
		return nil, SelectLayoutOutput{}, fmt.Errorf("select_layout: %w", err)
	}
	return nil, SelectLayoutOutput{Index: args.Index}, nil
}

func (s *Server) handleRefresh(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, RefreshOutput, error) {
	n, err := s.daemon.Refresh()
	if err != nil {
		return nil, RefreshOutput{}, fmt.Errorf("refresh: %w", err)
	}
	return nil, RefreshOutput{Windows: n}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}

	windows := make([]WindowInfo, 0, len(data.Windows))
	for _, w := range data.Windows {
		windows = append(windows, WindowInfo{
			ID:     w.ID.String(),
			Title:  w.Title,
			X:      w.Rect.Left,
			Y:      w.Rect.Top,
			Width:  w.Rect.Width(),
			Height: w.Rect.Height(),
			Stale:  w.Stale,
		})
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("list_monitors: %w", err)
	}

	monitors := make([]MonitorInfo, 0, len(data.Monitors))
	for _, m := range data.Monitors {
		monitors = append(monitors, MonitorInfo{
			ID:      m.ID,
			Name:    m.Name,
			X:       m.X,
			Y:       m.Y,
			Width:   m.Width,
			Height:  m.Height,
			Primary: m.Primary,
		})
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("status: %w", err)
	}

	out := StatusOutput{
		Backend:       status.Backend,
		Windows:       status.Windows,
		Visible:       status.Visible,
		LayoutIndex:   status.LayoutIndex,
		UptimeSeconds: status.UptimeSeconds,
		ConfigPath:    status.ConfigPath,
	}
	if snap := status.Snapshot; snap != nil {
		out.Snapshot = &SnapshotInfo{
			ID:      snap.ID,
			Op:      string(snap.Op),
			TakenAt: snap.TakenAt,
			Windows: snap.Windows,
		}
	}
	if status.LastReport != nil {
		last := reportOutput(*status.LastReport)
		out.LastReport = &last
	}
	return nil, out, nil
}

func (s *Server) handlePlan(_ context.Context, _ *mcpsdk.CallToolRequest, args PlanInput) (*mcpsdk.CallToolResult, PlanOutput, error) {
	if args.Count < 0 {
		return nil, PlanOutput{}, fmt.Errorf("count must be >= 0, got %d", args.Count)
	}
	data, err := s.daemon.GetPlan(args.Count)
	if err != nil {
		return nil, PlanOutput{}, fmt.Errorf("plan: %w", err)
	}

	cells := make([]CellInfo, 0, len(data.Cells))
	for _, c := range data.Cells {
		cells = append(cells, CellInfo{
			X:      c.Left,
			Y:      c.Top,
			Width:  c.Width(),
			Height: c.Height(),
		})
	}
	return nil, PlanOutput{
		Windows:   data.Plan.Windows,
		FirstRow:  data.Plan.FirstRow,
		SecondRow: data.Plan.SecondRow,
		RowHeight: data.Plan.RowHeight,
		Cells:     cells,
	}, nil
}
