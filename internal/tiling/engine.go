// Package tiling arranges discovered windows into a two-row grid, moves
// them between monitors and restores the last captured layout.
package tiling

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/gridis/internal/platform"
)

var (
	ErrNotEnoughWindows  = errors.New("not enough windows to arrange")
	ErrInsufficientSpace = errors.New("desktop area too small for grid")
	ErrMonitorTopology   = errors.New("monitor swap needs a primary and a secondary monitor")
	ErrNoSnapshot        = errors.New("nothing to undo")
)

// Report summarizes one pass over a window list.
type Report struct {
	Op        Op  `json:"op"`
	Requested int `json:"requested"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

func (r *Report) skip(logger *slog.Logger, id platform.WindowID, op string, err error) {
	r.Skipped++
	logger.Warn("skipping window", "window", id, "op", op, "error", err)
}

// Arrange tiles windows into the two-row grid over area. Each window is
// shown, its current rectangle read and its new one applied; a window that
// fails any step is skipped and keeps its place out of the snapshot.
func Arrange(backend platform.Backend, windows []platform.WindowID, area platform.Rect, logger *slog.Logger) (*Snapshot, Report, error) {
	logger = orDefault(logger)
	report := Report{Op: OpArrange, Requested: len(windows)}

	plan, err := PlanTwoRowGrid(len(windows), area)
	if err != nil {
		logger.Warn("arrange aborted", "windows", len(windows), "error", err)
		return nil, report, err
	}

	snapshot, err := NewSnapshot(OpArrange)
	if err != nil {
		return nil, report, err
	}

	logger.Info("arranging windows",
		"windows", len(windows),
		"first_row", plan.FirstRow,
		"second_row", plan.SecondRow,
		"row_height", plan.RowHeight,
	)

	cursor := newGridCursor(plan)
	for _, id := range windows {
		cell, ok := cursor.Cell()
		if !ok {
			break
		}

		if err := backend.Show(id); err != nil {
			report.skip(logger, id, "show", err)
			continue
		}
		prior, err := backend.WindowRect(id)
		if err != nil {
			report.skip(logger, id, "rect", err)
			continue
		}
		if err := backend.SetWindowRect(id, cell); err != nil {
			report.skip(logger, id, "set_rect", err)
			continue
		}

		snapshot.Record(id, prior)
		cursor.Advance()
		report.Processed++
		logger.Debug("window placed", "window", id, "rect", cell.String())
	}

	return snapshot, report, nil
}

// Undo writes every recorded rectangle back verbatim. Failures are logged
// and skipped.
func Undo(backend platform.Backend, snapshot *Snapshot, logger *slog.Logger) (Report, error) {
	logger = orDefault(logger)
	report := Report{Op: OpUndo}
	if snapshot.Len() == 0 {
		return report, ErrNoSnapshot
	}

	report.Requested = snapshot.Len()
	for _, e := range snapshot.Entries {
		if err := backend.SetWindowRect(e.Window, e.Rect); err != nil {
			report.skip(logger, e.Window, "set_rect", err)
			continue
		}
		report.Processed++
	}
	return report, nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
