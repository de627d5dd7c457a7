package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// _NET_WM_STATE client message action.
const stateRemove = 0

// WindowProperties is the raw X11 view of a client window used to derive its
// discovery record.
type WindowProperties struct {
	Title     string
	Types     []string
	States    []string
	WMState   uint // icccm.StateWithdrawn, StateNormal or StateIconic
	HasWM     bool // WM_STATE was present
	Viewable  bool
	Decorated bool
}

// HasType reports whether the window carries the _NET_WM_WINDOW_TYPE atom.
func (p WindowProperties) HasType(name string) bool {
	for _, t := range p.Types {
		if t == name {
			return true
		}
	}
	return false
}

// HasState reports whether the window carries the _NET_WM_STATE atom.
func (p WindowProperties) HasState(name string) bool {
	for _, s := range p.States {
		if s == name {
			return true
		}
	}
	return false
}

// ClientWindows returns the managed client windows in _NET_CLIENT_LIST order.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to read _NET_CLIENT_LIST: %w", err)
	}
	return clients, nil
}

// ReadProperties gathers the title, type, state and map state of a window.
// It fails only when the window itself is gone.
func (c *Connection) ReadProperties(windowID xproto.Window) (WindowProperties, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return WindowProperties{}, fmt.Errorf("window 0x%x attributes: %w", windowID, err)
	}

	props := WindowProperties{
		Title:    c.windowTitle(windowID),
		Viewable: attrs.MapState == xproto.MapStateViewable,
	}

	if types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID); err == nil {
		props.Types = types
	}
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		props.States = states
	}
	if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil && st != nil {
		props.WMState = st.State
		props.HasWM = true
	}

	props.Decorated = !c.FrameExtents(windowID).Zero()

	return props, nil
}

// WindowGeometry returns the outer frame bounds of a window in root
// coordinates: the client area grown by the _NET_FRAME_EXTENTS decorations.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("window 0x%x geometry: %w", windowID, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("window 0x%x translate: %w", windowID, err)
	}

	x, y, width, height = c.FrameExtents(windowID).Outer(
		int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height))
	return x, y, width, height, nil
}

// MoveResizeWindow places a window so its outer frame covers the given
// geometry. The stacking order and focus are left alone.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// A maximized window ignores geometry requests from most WMs.
	_ = c.unmaximizeWindow(windowID)

	cx, cy, cw, ch := c.FrameExtents(windowID).Client(x, y, width, height)

	// Static gravity makes x,y the client origin whatever win_gravity the
	// client asked for, so this is the exact inverse of WindowGeometry.
	err := ewmh.MoveresizeWindowExtra(
		c.XUtil,
		windowID,
		cx, cy, cw, ch,
		xproto.GravityStatic, 2, true, true,
	)
	if err == nil {
		return nil
	}

	// Without a WM there is no frame and the client is configured directly.
	win := xwindow.New(c.XUtil, windowID)
	win.MoveResize(cx, cy, cw, ch)
	return nil
}

// ShowWindow maps the window and clears _NET_WM_STATE_HIDDEN without
// activating it.
func (c *Connection) ShowWindow(windowID xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return fmt.Errorf("window 0x%x map: %w", windowID, err)
	}
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return nil
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return ewmh.WmStateReq(c.XUtil, windowID, stateRemove, "_NET_WM_STATE_HIDDEN")
		}
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, stateRemove, state); err != nil {
				return err
			}
		}
	}

	return nil
}

// FrameExtents returns the window decoration sizes. Windows without
// _NET_FRAME_EXTENTS report zero extents.
func (c *Connection) FrameExtents(windowID xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
