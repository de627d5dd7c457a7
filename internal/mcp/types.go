package mcp

import "time"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// ReportOutput is the output for the arrange, swap_monitors and undo tools.
type ReportOutput struct {
	Op        string `json:"op"`
	Requested int    `json:"requested"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// ToggleOutput is the output for the toggle tool.
type ToggleOutput struct {
	Visible bool `json:"visible"`
}

// SelectLayoutInput is the input for the select_layout tool.
type SelectLayoutInput struct {
	Index int `json:"index" jsonschema:"Layout index to record. Must be zero or greater. Recording a layout does not move any window."`
}

// SelectLayoutOutput is the output for the select_layout tool.
type SelectLayoutOutput struct {
	Index int `json:"index"`
}

// RefreshOutput is the output for the refresh tool.
type RefreshOutput struct {
	Windows int `json:"windows"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Stale  bool   `json:"stale,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Backend       string        `json:"backend"`
	Windows       int           `json:"windows"`
	Visible       bool          `json:"visible"`
	LayoutIndex   int           `json:"layout_index"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	ConfigPath    string        `json:"config_path,omitempty"`
	Snapshot      *SnapshotInfo `json:"snapshot,omitempty"`
	LastReport    *ReportOutput `json:"last_report,omitempty"`
}

// SnapshotInfo summarizes the geometry the next undo would restore.
type SnapshotInfo struct {
	ID      string    `json:"id"`
	Op      string    `json:"op"`
	TakenAt time.Time `json:"taken_at"`
	Windows int       `json:"windows"`
}

// PlanInput is the input for the plan tool.
type PlanInput struct {
	Count int `json:"count,omitempty" jsonschema:"Number of windows to plan for (default: the daemon's current window count)"`
}

// CellInfo is one grid cell in arrangement order.
type CellInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PlanOutput is the output for the plan tool.
type PlanOutput struct {
	Windows   int        `json:"windows"`
	FirstRow  int        `json:"first_row"`
	SecondRow int        `json:"second_row"`
	RowHeight int        `json:"row_height"`
	Cells     []CellInfo `json:"cells"`
}
