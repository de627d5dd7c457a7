//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/gridis/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Native = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// OpenNative connects to the X server named by display ($DISPLAY when empty).
func OpenNative(display string) (Native, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

func (b *LinuxBackend) Name() string { return "x11" }

// Disconnect stops the event loop and closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// EnumWindows walks _NET_CLIENT_LIST in window-manager order.
func (b *LinuxBackend) EnumWindows(visit func(WindowID) bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return err
	}
	for _, w := range clients {
		if !visit(WindowID(w)) {
			break
		}
	}
	return nil
}

// Describe derives the discovery record from EWMH/ICCCM properties.
func (b *LinuxBackend) Describe(id WindowID) (WindowRecord, error) {
	conn, err := b.connection()
	if err != nil {
		return WindowRecord{}, err
	}

	props, err := conn.ReadProperties(xproto.Window(id))
	if err != nil {
		return WindowRecord{}, err
	}

	rect, err := b.WindowRect(id)
	if err != nil {
		return WindowRecord{}, err
	}

	return WindowRecord{
		ID:        id,
		Title:     props.Title,
		Visible:   props.Viewable,
		ExStyle:   exStyleFromProperties(props),
		ShowState: showStateFromProperties(props),
		Rect:      rect,
	}, nil
}

// WindowRect returns the outer frame bounds in root coordinates, the same
// rectangle SetWindowRect takes.
func (b *LinuxBackend) WindowRect(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	x, y, w, h, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return RectFromBounds(x, y, w, h), nil
}

// SetWindowRect moves and resizes a window to the specified bounds.
func (b *LinuxBackend) SetWindowRect(id WindowID, r Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), r.Left, r.Top, r.Width(), r.Height())
}

// Show maps the window without raising or focusing it.
func (b *LinuxBackend) Show(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ShowWindow(xproto.Window(id))
}

// Monitors returns all active RandR monitors.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, Monitor{
			ID:      m.ID,
			Name:    m.Name,
			X:       m.X,
			Y:       m.Y,
			Width:   m.Width,
			Height:  m.Height,
			Primary: m.Primary,
		})
	}
	return out, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// toolWindowTypes are the EWMH window types that play the role of a Win32
// tool window: never listed in task switchers.
var toolWindowTypes = []string{
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
	"_NET_WM_WINDOW_TYPE_POPUP_MENU",
	"_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
}

func exStyleFromProperties(p x11.WindowProperties) ExStyle {
	var style ExStyle

	for _, t := range toolWindowTypes {
		if p.HasType(t) {
			style |= StyleToolWindow
			break
		}
	}
	if p.HasState("_NET_WM_STATE_SKIP_TASKBAR") {
		style |= StyleToolWindow
	}

	if len(p.Types) == 0 || p.HasType("_NET_WM_WINDOW_TYPE_NORMAL") {
		style |= StyleAppWindow
	}
	if p.Decorated || p.HasType("_NET_WM_WINDOW_TYPE_DIALOG") {
		style |= StyleWindowEdge
	}
	return style
}

func showStateFromProperties(p x11.WindowProperties) ShowState {
	if p.HasState("_NET_WM_STATE_HIDDEN") {
		return ShowMinimized
	}
	if p.HasWM {
		switch p.WMState {
		case icccm.StateIconic:
			return ShowMinimized
		case icccm.StateWithdrawn:
			return ShowHidden
		}
	} else if !p.Viewable {
		return ShowHidden
	}
	if p.HasState("_NET_WM_STATE_MAXIMIZED_HORZ") && p.HasState("_NET_WM_STATE_MAXIMIZED_VERT") {
		return ShowMaximized
	}
	return ShowNormal
}
