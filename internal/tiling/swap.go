package tiling

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/gridis/internal/platform"
)

// Classifier selects how a window's current monitor is determined.
type Classifier string

const (
	// ClassifyBoundary treats a window whose top edge is at or above the
	// boundary as living on the secondary monitor.
	ClassifyBoundary Classifier = "boundary"
	// ClassifyCenter uses the monitor that contains the window's center.
	ClassifyCenter Classifier = "center"
)

// DefaultTopBoundary is the top-edge threshold for ClassifyBoundary.
const DefaultTopBoundary = -15

// SwapOptions configures the monitor swap.
type SwapOptions struct {
	TopBoundary int
	Classify    Classifier
}

// DefaultSwapOptions returns the boundary classifier at DefaultTopBoundary.
func DefaultSwapOptions() SwapOptions {
	return SwapOptions{TopBoundary: DefaultTopBoundary, Classify: ClassifyBoundary}
}

// Topology is the primary/secondary pair a swap moves windows between.
type Topology struct {
	Primary   platform.Monitor
	Secondary platform.Monitor
}

// ResolveTopology picks the primary monitor and the first other monitor.
func ResolveTopology(monitors []platform.Monitor) (Topology, error) {
	var (
		topo                    Topology
		havePrimary, haveSecond bool
	)
	for _, m := range monitors {
		if m.Width < 1 || m.Height < 1 {
			continue
		}
		switch {
		case m.Primary && !havePrimary:
			topo.Primary = m
			havePrimary = true
		case !m.Primary && !haveSecond:
			topo.Secondary = m
			haveSecond = true
		}
	}
	if !havePrimary || !haveSecond {
		return Topology{}, fmt.Errorf("%w: found %d usable monitors", ErrMonitorTopology, len(monitors))
	}
	return topo, nil
}

// Classify returns the monitor a window is on and the one it moves to.
func (t Topology) Classify(r platform.Rect, opts SwapOptions) (source, target platform.Monitor, ok bool) {
	switch opts.Classify {
	case ClassifyCenter:
		cx, cy := r.Center()
		switch {
		case t.Primary.Contains(cx, cy):
			return t.Primary, t.Secondary, true
		case t.Secondary.Contains(cx, cy):
			return t.Secondary, t.Primary, true
		}
		return platform.Monitor{}, platform.Monitor{}, false
	default:
		if r.Top <= opts.TopBoundary {
			return t.Secondary, t.Primary, true
		}
		return t.Primary, t.Secondary, true
	}
}

// MapProportional expresses r relative to src and maps it onto dst. Each
// coordinate is scaled multiply-then-divide with truncation.
func MapProportional(r, src, dst platform.Rect) platform.Rect {
	sw, sh := src.Width(), src.Height()
	dw, dh := dst.Width(), dst.Height()

	left := dst.Left + (r.Left-src.Left)*dw/sw
	top := dst.Top + (r.Top-src.Top)*dh/sh
	width := r.Width() * dw / sw
	height := r.Height() * dh / sh

	return platform.RectFromBounds(left, top, width, height)
}

// Swap moves every window to the other monitor, keeping its position and
// size proportional to the monitor it came from.
func Swap(backend platform.Backend, windows []platform.WindowID, monitors []platform.Monitor, opts SwapOptions, logger *slog.Logger) (*Snapshot, Report, error) {
	logger = orDefault(logger)
	report := Report{Op: OpSwap, Requested: len(windows)}

	topo, err := ResolveTopology(monitors)
	if err != nil {
		logger.Warn("swap aborted", "monitors", len(monitors), "error", err)
		return nil, report, err
	}

	snapshot, err := NewSnapshot(OpSwap)
	if err != nil {
		return nil, report, err
	}

	for _, id := range windows {
		prior, err := backend.WindowRect(id)
		if err != nil {
			report.skip(logger, id, "rect", err)
			continue
		}

		source, target, ok := topo.Classify(prior, opts)
		if !ok {
			report.skip(logger, id, "classify", fmt.Errorf("window at %s is on neither monitor", prior))
			continue
		}

		next := MapProportional(prior, source.Bounds(), target.Bounds())
		if err := backend.SetWindowRect(id, next); err != nil {
			report.skip(logger, id, "set_rect", err)
			continue
		}

		snapshot.Record(id, prior)
		report.Processed++
		logger.Debug("window swapped",
			"window", id,
			"from", source.Name,
			"to", target.Name,
			"rect", next.String(),
		)
	}

	return snapshot, report, nil
}
