//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procGetWindowPlacement  = user32.NewProc("GetWindowPlacement")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procShowWindow          = user32.NewProc("ShowWindow")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const (
	swShow             = 5
	swpNoZOrder        = 0x0004
	swpNoActivate      = 0x0010
	monitorInfoPrimary = 0x00000001
	maxTitleLength     = 512
)

// GWL_EXSTYLE is negative, so it has to go through a variable to become a
// call argument.
var gwlExStyle int32 = -20

type win32Point struct {
	X, Y int32
}

type win32Rect struct {
	Left, Top, Right, Bottom int32
}

func (r win32Rect) rect() Rect {
	return Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}
}

type windowPlacement struct {
	Length         uint32
	Flags          uint32
	ShowCmd        uint32
	MinPosition    win32Point
	MaxPosition    win32Point
	NormalPosition win32Rect
}

type monitorInfoEx struct {
	Size    uint32
	Monitor win32Rect
	Work    win32Rect
	Flags   uint32
	Device  [32]uint16
}

// WindowsBackend drives top-level windows through user32.
type WindowsBackend struct {
	// EnumWindows and EnumDisplayMonitors take a C callback. Each backend
	// owns one callback per API and routes it to the closure of the call in
	// progress; mu serializes enumerations.
	mu           sync.Mutex
	enumCB       uintptr
	visit        func(WindowID) bool
	stopped      bool
	monitorCB    uintptr
	monitorVisit func(handle uintptr)

	done     chan struct{}
	doneOnce sync.Once
}

var _ Native = (*WindowsBackend)(nil)

// OpenNative returns the user32 backend. display is ignored on Windows.
func OpenNative(display string) (Native, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}

	b := &WindowsBackend{done: make(chan struct{})}
	b.enumCB = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if b.visit(WindowID(hwnd)) {
			return 1
		}
		b.stopped = true
		return 0
	})
	b.monitorCB = windows.NewCallback(func(hmon, _ uintptr, _ uintptr, _ uintptr) uintptr {
		b.monitorVisit(hmon)
		return 1
	})
	return b, nil
}

func (b *WindowsBackend) Name() string { return "win32" }

// EventLoop blocks until Disconnect; global hotkeys are not bound on Windows.
func (b *WindowsBackend) EventLoop() {
	<-b.done
}

func (b *WindowsBackend) Disconnect() {
	b.doneOnce.Do(func() { close(b.done) })
}

func (b *WindowsBackend) EnumWindows(visit func(WindowID) bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.visit = visit
	b.stopped = false
	defer func() { b.visit = nil }()

	r1, _, err := procEnumWindows.Call(b.enumCB, 0)
	if r1 == 0 && !b.stopped {
		return fmt.Errorf("EnumWindows: %w", err)
	}
	return nil
}

func (b *WindowsBackend) Describe(id WindowID) (WindowRecord, error) {
	if err := checkWindow(id); err != nil {
		return WindowRecord{}, err
	}

	var buf [maxTitleLength]uint16
	n, _, _ := procGetWindowTextW.Call(uintptr(id), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	visible, _, _ := procIsWindowVisible.Call(uintptr(id))
	style, _, _ := procGetWindowLongW.Call(uintptr(id), uintptr(gwlExStyle))

	wp := windowPlacement{}
	wp.Length = uint32(unsafe.Sizeof(wp))
	if r1, _, err := procGetWindowPlacement.Call(uintptr(id), uintptr(unsafe.Pointer(&wp))); r1 == 0 {
		return WindowRecord{}, fmt.Errorf("GetWindowPlacement %s: %w", id, err)
	}

	rect, err := b.WindowRect(id)
	if err != nil {
		return WindowRecord{}, err
	}

	return WindowRecord{
		ID:        id,
		Title:     windows.UTF16ToString(buf[:n]),
		Visible:   visible != 0,
		ExStyle:   ExStyle(uint32(style)),
		ShowState: ShowState(wp.ShowCmd),
		Rect:      rect,
	}, nil
}

func (b *WindowsBackend) WindowRect(id WindowID) (Rect, error) {
	var r win32Rect
	if r1, _, err := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&r))); r1 == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect %s: %w", id, err)
	}
	return r.rect(), nil
}

func (b *WindowsBackend) SetWindowRect(id WindowID, r Rect) error {
	r1, _, err := procSetWindowPos.Call(
		uintptr(id),
		0, // HWND_TOP, ignored with SWP_NOZORDER
		uintptr(r.Left),
		uintptr(r.Top),
		uintptr(r.Width()),
		uintptr(r.Height()),
		swpNoZOrder|swpNoActivate,
	)
	if r1 == 0 {
		return fmt.Errorf("SetWindowPos %s: %w", id, err)
	}
	return nil
}

// Show issues SW_SHOW. ShowWindow reports the previous visibility rather
// than success, so only a dead handle counts as failure.
func (b *WindowsBackend) Show(id WindowID) error {
	if err := checkWindow(id); err != nil {
		return err
	}
	procShowWindow.Call(uintptr(id), swShow)
	return nil
}

func (b *WindowsBackend) Monitors() ([]Monitor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		monitors []Monitor
		infoErr  error
	)
	b.monitorVisit = func(handle uintptr) {
		info := monitorInfoEx{}
		info.Size = uint32(unsafe.Sizeof(info))
		if r1, _, err := procGetMonitorInfoW.Call(handle, uintptr(unsafe.Pointer(&info))); r1 == 0 {
			infoErr = fmt.Errorf("GetMonitorInfoW: %w", err)
			return
		}
		bounds := info.Monitor.rect()
		monitors = append(monitors, Monitor{
			ID:      len(monitors),
			Name:    windows.UTF16ToString(info.Device[:]),
			X:       bounds.Left,
			Y:       bounds.Top,
			Width:   bounds.Width(),
			Height:  bounds.Height(),
			Primary: info.Flags&monitorInfoPrimary != 0,
		})
	}
	defer func() { b.monitorVisit = nil }()

	if r1, _, err := procEnumDisplayMonitors.Call(0, 0, b.monitorCB, 0); r1 == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}
	if len(monitors) == 0 && infoErr != nil {
		return nil, infoErr
	}
	return monitors, nil
}

func checkWindow(id WindowID) error {
	if ok, _, _ := procIsWindow.Call(uintptr(id)); ok == 0 {
		return fmt.Errorf("window %s: %w", id, ErrStaleWindow)
	}
	return nil
}
