package platform

import "fmt"

// WindowID is a platform-neutral top-level window handle. It is compared by
// equality only; a WindowID obtained during discovery may be stale by the
// time it is used.
type WindowID uint64

func (id WindowID) String() string {
	return fmt.Sprintf("0x%x", uint64(id))
}

// Rect describes a window's on-screen bounds in absolute desktop coordinates.
// Right and Bottom are exclusive edges, so Width is Right-Left.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// RectFromBounds builds a Rect from an origin and a size.
func RectFromBounds(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Unset reports whether all four edges sum to zero, which is how an unset
// or zeroed rectangle shows up in the window list.
func (r Rect) Unset() bool {
	return r.Left+r.Top+r.Right+r.Bottom == 0
}

// Center returns the center point of r.
func (r Rect) Center() (x, y int) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d at %d,%d", r.Width(), r.Height(), r.Left, r.Top)
}

// Monitor describes an attached display in absolute desktop coordinates.
type Monitor struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// Bounds returns the monitor area as a Rect.
func (m Monitor) Bounds() Rect {
	return RectFromBounds(m.X, m.Y, m.Width, m.Height)
}

// Contains reports whether the point lies inside the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// ExStyle is the set of extended window style bits used by discovery.
// Values match the Win32 WS_EX_* constants; other backends synthesize them.
type ExStyle uint32

const (
	StyleWindowEdge ExStyle = 0x00000100
	StyleToolWindow ExStyle = 0x00000080
	StyleAppWindow  ExStyle = 0x00040000
)

// Has reports whether every bit of flag is set.
func (s ExStyle) Has(flag ExStyle) bool {
	return s&flag == flag
}

// ShowState is a window's placement show command.
type ShowState uint32

const (
	ShowHidden    ShowState = 0
	ShowNormal    ShowState = 1
	ShowMinimized ShowState = 2
	ShowMaximized ShowState = 3
)

// Shown reports whether the placement state is anything other than hidden.
func (s ShowState) Shown() bool {
	return s > ShowHidden
}

// WindowRecord is the discovery-time view of a window. It is only used to
// decide inclusion and is not kept afterwards.
type WindowRecord struct {
	ID        WindowID
	Title     string
	Visible   bool
	ExStyle   ExStyle
	ShowState ShowState
	Rect      Rect
}

// Backend abstracts the window-system calls used by gridis. Every call is
// synchronous and any per-window call may fail for a stale handle.
type Backend interface {
	// EnumWindows calls visit for each top-level window in OS order until
	// visit returns false.
	EnumWindows(visit func(WindowID) bool) error
	// Describe reads the discovery record of a window.
	Describe(id WindowID) (WindowRecord, error)
	// WindowRect reads the current bounds of a window.
	WindowRect(id WindowID) (Rect, error)
	// SetWindowRect moves and resizes a window without changing z-order or
	// activating it.
	SetWindowRect(id WindowID, r Rect) error
	// Show forces a window into the shown state.
	Show(id WindowID) error
	// Monitors returns the attached displays.
	Monitors() ([]Monitor, error)
}

// Native is a Backend bound to a live display connection.
type Native interface {
	Backend
	Name() string
	// EventLoop blocks dispatching window-system events until Disconnect.
	EventLoop()
	Disconnect()
}
