package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/tiling"
)

const (
	ServerName    = "gridis"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools call.
type Daemon interface {
	Arrange() (*tiling.Report, error)
	SwapMonitors() (*tiling.Report, error)
	Undo() (*tiling.Report, error)
	Toggle() (bool, error)
	SelectLayout(index int) error
	Refresh() (int, error)
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListWindows() (*ipc.WindowsData, error)
	GetPlan(count int) (*ipc.PlanData, error)
}

// Server is the MCP server that forwards tool calls to a running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a new MCP server backed by daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange",
		Description: "Tile the daemon's windows into a two-row grid covering the desktop. The top row holds floor(n/2) windows and the bottom row the rest. Needs at least two windows. The previous geometry is kept so undo can restore it.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap_monitors",
		Description: "Move every managed window from the monitor it is on to the other monitor, keeping its relative position and size. Needs exactly two monitors. The previous geometry is kept so undo can restore it.",
	}, s.handleSwapMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "undo",
		Description: "Restore the window geometry saved by the last arrange or swap_monitors. Fails when there is nothing to undo.",
	}, s.handleUndo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle",
		Description: "Flip the daemon's visible flag and return the new value. Windows are not moved.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "select_layout",
		Description: "Record a layout index. Only the two-row grid exists today, so this records the choice without moving windows.",
	}, s.handleSelectLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "refresh",
		Description: "Rediscover top-level application windows and return how many the daemon now manages.",
	}, s.handleRefresh)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the managed windows in arrangement order with their current geometry.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the monitors the daemon sees, with the primary monitor flagged.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "status",
		Description: "Report daemon status: backend, window count, visible flag, selected layout, the pending undo snapshot and the last operation's result.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan",
		Description: "Preview the two-row grid for a window count without moving anything. Returns the cells in arrangement order.",
	}, s.handlePlan)
}
