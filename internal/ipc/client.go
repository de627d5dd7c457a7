package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/gridis/internal/runtimepath"
	"github.com/1broseidon/gridis/internal/tiling"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for a specific socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response
// data into out when out is non-nil.
func (c *Client) call(command CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Arrange asks the daemon to tile its windows into the two-row grid.
func (c *Client) Arrange() (*tiling.Report, error) {
	var report tiling.Report
	if err := c.call(CommandArrange, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SwapMonitors asks the daemon to move its windows to the other monitor.
func (c *Client) SwapMonitors() (*tiling.Report, error) {
	var report tiling.Report
	if err := c.call(CommandSwapMonitors, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Undo sends an UNDO command to the daemon.
func (c *Client) Undo() (*tiling.Report, error) {
	var report tiling.Report
	if err := c.call(CommandUndo, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Toggle flips the daemon's visible flag and returns the new value.
func (c *Client) Toggle() (bool, error) {
	var data ToggleData
	if err := c.call(CommandToggle, nil, &data); err != nil {
		return false, err
	}
	return data.Visible, nil
}

// SelectLayout records a layout choice.
func (c *Client) SelectLayout(index int) error {
	return c.call(CommandSelectLayout, SelectLayoutPayload{Index: index}, nil)
}

// Refresh makes the daemon rediscover windows and returns the new count.
func (c *Client) Refresh() (int, error) {
	var data RefreshData
	if err := c.call(CommandRefresh, nil, &data); err != nil {
		return 0, err
	}
	return data.Windows, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ListWindows retrieves the daemon's discovered windows.
func (c *Client) ListWindows() (*WindowsData, error) {
	var windows WindowsData
	if err := c.call(CommandListWindows, nil, &windows); err != nil {
		return nil, err
	}
	return &windows, nil
}

// GetPlan returns the grid the daemon would use for count windows.
func (c *Client) GetPlan(count int) (*PlanData, error) {
	var plan PlanData
	if err := c.call(CommandGetPlan, PlanPayload{Count: count}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
