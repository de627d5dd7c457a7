package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/gridis/internal/config"
	"github.com/1broseidon/gridis/internal/runtimepath"
	"github.com/1broseidon/gridis/internal/tiling"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	tiler        *tiling.Tiler
	startTime    time.Time
	reloadChan   chan<- *config.Config
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the standard socket path.
// configPath is re-read on RELOAD; each reloaded config is applied to the
// tiler and then offered on reloadChan without blocking.
func NewServer(cfg *config.Config, configPath string, tiler *tiling.Tiler, reloadChan chan<- *config.Config) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, cfg, configPath, tiler, reloadChan), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, cfg *config.Config, configPath string, tiler *tiling.Tiler, reloadChan chan<- *config.Config) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: configPath,
		cfg:        cfg,
		tiler:      tiler,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandArrange:
		return s.handleOperation("arrange", s.tiler.Arrange)
	case CommandSwapMonitors:
		return s.handleOperation("swap monitors", s.tiler.SwapMonitors)
	case CommandUndo:
		return s.handleOperation("undo", s.tiler.Undo)
	case CommandToggle:
		return okResponse(ToggleData{Visible: s.tiler.ToggleVisibility()})
	case CommandSelectLayout:
		return s.handleSelectLayout(req.Payload)
	case CommandRefresh:
		return okResponse(RefreshData{Windows: s.tiler.Refresh()})
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListWindows:
		return okResponse(WindowsData{Windows: s.tiler.Windows()})
	case CommandGetPlan:
		return s.handleGetPlan(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleOperation(name string, op func() (tiling.Report, error)) *Response {
	log.Printf("IPC: %s", name)
	report, err := op()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", name, err))
	}
	return okResponse(report)
}

func (s *Server) handleSelectLayout(payload json.RawMessage) *Response {
	var req SelectLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid select payload: %v", err))
	}
	if err := s.tiler.SelectLayout(req.Index); err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(nil)
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	res, err := config.LoadFromPath(s.configPath)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.Apply(res.Config)

	log.Println("IPC: Config reloaded successfully")
	return okResponse(nil)
}

// Apply installs cfg on the server and the tiler and notifies the daemon.
func (s *Server) Apply(cfg *config.Config) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()

	s.tiler.UpdateConfig(cfg)

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- cfg:
	default:
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	return okResponse(StatusData{
		Status:        s.tiler.Status(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		ConfigPath:    s.configPath,
	})
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.tiler.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	return okResponse(MonitorsData{Monitors: monitors})
}

func (s *Server) handleGetPlan(payload json.RawMessage) *Response {
	var req PlanPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid plan payload: %v", err))
		}
	}
	plan, err := s.tiler.Plan(req.Count)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to plan grid: %v", err))
	}
	return okResponse(PlanData{Plan: plan, Cells: plan.Cells()})
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}
