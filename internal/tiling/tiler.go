package tiling

import (
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/gridis/internal/config"
	"github.com/1broseidon/gridis/internal/directory"
	"github.com/1broseidon/gridis/internal/platform"
)

// WindowInfo describes a window held by the Tiler.
type WindowInfo struct {
	ID    platform.WindowID `json:"id"`
	Title string            `json:"title"`
	Rect  platform.Rect     `json:"rect"`
	// Stale is set when the window could not be read during listing.
	Stale bool `json:"stale,omitempty"`
}

// SnapshotInfo summarizes the pending undo snapshot.
type SnapshotInfo struct {
	ID      string    `json:"id"`
	Op      Op        `json:"op"`
	TakenAt time.Time `json:"taken_at"`
	Windows int       `json:"windows"`
}

// Status is the controller state reported to clients.
type Status struct {
	Backend     string        `json:"backend"`
	Windows     int           `json:"windows"`
	Discovered  bool          `json:"discovered"`
	Visible     bool          `json:"visible"`
	LayoutIndex int           `json:"layout_index"`
	Snapshot    *SnapshotInfo `json:"snapshot,omitempty"`
	LastReport  *Report       `json:"last_report,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
}

// Tiler owns the discovered window list and the undo snapshot. All triggers
// run under its lock, one to completion before the next.
type Tiler struct {
	mu          sync.Mutex
	backend     platform.Backend
	backendName string
	config      *config.Config
	filter      directory.Filter
	logger      *slog.Logger

	windows     []platform.WindowRecord
	discovered  bool
	snapshot    *Snapshot
	visible     bool
	layoutIndex int
	lastReport  *Report
	startedAt   time.Time
}

// NewTiler creates a controller over backend. A nil logger uses slog.Default.
func NewTiler(backend platform.Backend, cfg *config.Config, logger *slog.Logger) *Tiler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	name := "custom"
	if n, ok := backend.(interface{ Name() string }); ok {
		name = n.Name()
	}
	return &Tiler{
		backend:     backend,
		backendName: name,
		config:      cfg,
		filter:      directory.NewFilter(cfg.Discovery.TitleExceptions),
		logger:      logger,
		visible:     true,
		startedAt:   time.Now(),
	}
}

// Refresh rediscovers the window list and returns its size.
func (t *Tiler) Refresh() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.discoverLocked()
}

func (t *Tiler) discoverLocked() int {
	t.windows = directory.Scan(t.backend, t.filter, t.logger)
	t.discovered = true
	log.Printf("Discovered %d windows", len(t.windows))
	return len(t.windows)
}

// ensureDiscoveredLocked runs discovery on the first action only.
func (t *Tiler) ensureDiscoveredLocked() {
	if !t.discovered {
		t.discoverLocked()
	}
}

func (t *Tiler) windowIDsLocked() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(t.windows))
	for _, w := range t.windows {
		ids = append(ids, w.ID)
	}
	return ids
}

// Arrange tiles the discovered windows into the two-row grid.
func (t *Tiler) Arrange() (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureDiscoveredLocked()

	area, err := t.desktopAreaLocked()
	if err != nil {
		return Report{Op: OpArrange}, err
	}

	log.Printf("=== Arranging %d windows over %s ===", len(t.windows), area)
	snapshot, report, err := Arrange(t.backend, t.windowIDsLocked(), area, t.logger)
	if err != nil {
		log.Printf("Warning: arrange aborted: %v", err)
		return report, err
	}
	t.commitLocked(snapshot, report)
	return report, nil
}

// SwapMonitors moves the discovered windows to the other monitor.
func (t *Tiler) SwapMonitors() (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureDiscoveredLocked()

	monitors, err := t.backend.Monitors()
	if err != nil {
		return Report{Op: OpSwap}, fmt.Errorf("failed to query monitors: %w", err)
	}

	opts := SwapOptions{
		TopBoundary: t.config.Swap.TopBoundary,
		Classify:    Classifier(t.config.Swap.Classify),
	}
	log.Printf("=== Swapping %d windows across %d monitors ===", len(t.windows), len(monitors))
	snapshot, report, err := Swap(t.backend, t.windowIDsLocked(), monitors, opts, t.logger)
	if err != nil {
		log.Printf("Warning: swap aborted: %v", err)
		return report, err
	}
	t.commitLocked(snapshot, report)
	return report, nil
}

// Undo restores the rectangles captured by the last arrange or swap and
// consumes the snapshot.
func (t *Tiler) Undo() (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snapshot == nil {
		return Report{Op: OpUndo}, ErrNoSnapshot
	}

	snapshot := t.snapshot
	t.snapshot = nil
	log.Printf("=== Undoing %s (%d windows) ===", snapshot.Op, snapshot.Len())
	report, err := Undo(t.backend, snapshot, t.logger)
	t.lastReport = &report
	return report, err
}

func (t *Tiler) commitLocked(snapshot *Snapshot, report Report) {
	t.snapshot = snapshot
	t.lastReport = &report
	if report.Skipped > 0 {
		log.Printf("Warning: %s skipped %d of %d windows", report.Op, report.Skipped, report.Requested)
	}
}

// ToggleVisibility flips the visible flag and returns the new value.
func (t *Tiler) ToggleVisibility() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = !t.visible
	log.Printf("Visibility toggled: %v", t.visible)
	return t.visible
}

// SelectLayout records the chosen layout index. There is only one layout,
// so the choice has no effect on geometry.
func (t *Tiler) SelectLayout(index int) error {
	if index < 0 {
		return fmt.Errorf("layout index must be >= 0, got %d", index)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.layoutIndex = index
	log.Printf("Layout %d selected", index)
	return nil
}

// Status returns a point-in-time view of the controller.
func (t *Tiler) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{
		Backend:     t.backendName,
		Windows:     len(t.windows),
		Discovered:  t.discovered,
		Visible:     t.visible,
		LayoutIndex: t.layoutIndex,
		StartedAt:   t.startedAt,
	}
	if t.snapshot != nil {
		st.Snapshot = &SnapshotInfo{
			ID:      t.snapshot.ID.String(),
			Op:      t.snapshot.Op,
			TakenAt: t.snapshot.TakenAt,
			Windows: t.snapshot.Len(),
		}
	}
	if t.lastReport != nil {
		r := *t.lastReport
		st.LastReport = &r
	}
	return st
}

// Windows lists the discovered windows with their current rectangles.
func (t *Tiler) Windows() []WindowInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensureDiscoveredLocked()

	out := make([]WindowInfo, 0, len(t.windows))
	for _, w := range t.windows {
		info := WindowInfo{ID: w.ID, Title: w.Title, Rect: w.Rect}
		if r, err := t.backend.WindowRect(w.ID); err == nil {
			info.Rect = r
		} else {
			info.Stale = true
		}
		out = append(out, info)
	}
	return out
}

// Monitors returns the current monitor topology.
func (t *Tiler) Monitors() ([]platform.Monitor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backend.Monitors()
}

// Plan returns the grid that Arrange would use for n windows. n <= 0 uses
// the discovered window count.
func (t *Tiler) Plan(n int) (GridPlan, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 {
		t.ensureDiscoveredLocked()
		n = len(t.windows)
	}
	area, err := t.desktopAreaLocked()
	if err != nil {
		return GridPlan{}, err
	}
	return PlanTwoRowGrid(n, area)
}

// UpdateConfig swaps in a reloaded configuration. The window list and the
// snapshot are kept.
func (t *Tiler) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = cfg
	t.filter = directory.NewFilter(cfg.Discovery.TitleExceptions)
}

// SetLogger replaces the structured logger, for example after the logging
// section was reloaded. A nil logger uses slog.Default.
func (t *Tiler) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// desktopAreaLocked returns the configured desktop, or the primary
// monitor's bounds when the desktop is auto-sized.
func (t *Tiler) desktopAreaLocked() (platform.Rect, error) {
	d := t.config.Desktop
	if !d.Auto() {
		return platform.RectFromBounds(0, 0, d.Width, d.Height), nil
	}

	monitors, err := t.backend.Monitors()
	if err != nil {
		return platform.Rect{}, fmt.Errorf("failed to query monitors: %w", err)
	}
	for _, m := range monitors {
		if m.Primary {
			return m.Bounds(), nil
		}
	}
	return platform.Rect{}, fmt.Errorf("%w: no primary monitor for auto desktop", ErrMonitorTopology)
}
