package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandArrange      CommandType = "ARRANGE"
	CommandSwapMonitors CommandType = "SWAP_MONITORS"
	CommandUndo         CommandType = "UNDO"
	CommandToggle       CommandType = "TOGGLE"
	CommandSelectLayout CommandType = "SELECT_LAYOUT"
	CommandRefresh      CommandType = "REFRESH"
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandGetPlan      CommandType = "GET_PLAN"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	tiling.Status
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
	ConfigPath    string `json:"config_path,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []platform.Monitor `json:"monitors"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []tiling.WindowInfo `json:"windows"`
}

// ToggleData is returned by TOGGLE.
type ToggleData struct {
	Visible bool `json:"visible"`
}

// RefreshData is returned by REFRESH.
type RefreshData struct {
	Windows int `json:"windows"`
}

// SelectLayoutPayload represents the payload for SELECT_LAYOUT
type SelectLayoutPayload struct {
	Index int `json:"index"`
}

// PlanPayload represents the payload for GET_PLAN. Count <= 0 uses the
// daemon's discovered window count.
type PlanPayload struct {
	Count int `json:"count,omitempty"`
}

// PlanData is returned by GET_PLAN.
type PlanData struct {
	Plan  tiling.GridPlan `json:"plan"`
	Cells []platform.Rect `json:"cells"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
