package platform

import (
	"errors"
	"fmt"
	"sync"
)

// ErrStaleWindow is returned by MemoryBackend for handles it does not know.
var ErrStaleWindow = errors.New("window handle is stale")

// Op names a Backend call for fault injection.
type Op string

const (
	OpDescribe Op = "describe"
	OpRect     Op = "rect"
	OpSetRect  Op = "set_rect"
	OpShow     Op = "show"
)

// MemoryBackend is an in-process window system. It backs `backend: memory`
// (a headless daemon) and the package tests.
type MemoryBackend struct {
	mu       sync.Mutex
	order    []WindowID
	windows  map[WindowID]*WindowRecord
	monitors []Monitor
	faults   map[WindowID]map[Op]error
	enumErr  error
	moves    []WindowID
	done     chan struct{}
	doneOnce sync.Once
}

var _ Native = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory window system.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		windows: make(map[WindowID]*WindowRecord),
		faults:  make(map[WindowID]map[Op]error),
		done:    make(chan struct{}),
	}
}

// AddWindow registers a window; enumeration follows insertion order.
func (b *MemoryBackend) AddWindow(rec WindowRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[rec.ID]; !ok {
		b.order = append(b.order, rec.ID)
	}
	r := rec
	b.windows[rec.ID] = &r
}

// AddAppWindow registers a visible, shown application window.
func (b *MemoryBackend) AddAppWindow(id WindowID, title string, r Rect) {
	b.AddWindow(WindowRecord{
		ID:        id,
		Title:     title,
		Visible:   true,
		ExStyle:   StyleAppWindow,
		ShowState: ShowNormal,
		Rect:      r,
	})
}

// RemoveWindow forgets a window so later calls on it fail as stale.
func (b *MemoryBackend) RemoveWindow(id WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
	for i, w := range b.order {
		if w == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// SetMonitors replaces the monitor topology.
func (b *MemoryBackend) SetMonitors(monitors ...Monitor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.monitors = append([]Monitor(nil), monitors...)
}

// FailOn makes op fail with err for window id. A nil err clears the fault.
func (b *MemoryBackend) FailOn(id WindowID, op Op, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.faults[id], op)
		return
	}
	if b.faults[id] == nil {
		b.faults[id] = make(map[Op]error)
	}
	b.faults[id][op] = err
}

// FailEnumeration makes EnumWindows fail with err.
func (b *MemoryBackend) FailEnumeration(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enumErr = err
}

// Rect returns the stored rectangle of a window.
func (b *MemoryBackend) Rect(id WindowID) (Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return Rect{}, false
	}
	return w.Rect, true
}

// Moves returns the windows passed to successful SetWindowRect calls, in order.
func (b *MemoryBackend) Moves() []WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]WindowID(nil), b.moves...)
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) EnumWindows(visit func(WindowID) bool) error {
	b.mu.Lock()
	if b.enumErr != nil {
		err := b.enumErr
		b.mu.Unlock()
		return err
	}
	ids := append([]WindowID(nil), b.order...)
	b.mu.Unlock()

	// visit may call back into the backend.
	for _, id := range ids {
		if !visit(id) {
			break
		}
	}
	return nil
}

func (b *MemoryBackend) Describe(id WindowID) (WindowRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookupLocked(id, OpDescribe)
	if err != nil {
		return WindowRecord{}, err
	}
	return *w, nil
}

func (b *MemoryBackend) WindowRect(id WindowID) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookupLocked(id, OpRect)
	if err != nil {
		return Rect{}, err
	}
	return w.Rect, nil
}

func (b *MemoryBackend) SetWindowRect(id WindowID, r Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookupLocked(id, OpSetRect)
	if err != nil {
		return err
	}
	w.Rect = r
	b.moves = append(b.moves, id)
	return nil
}

func (b *MemoryBackend) Show(id WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookupLocked(id, OpShow)
	if err != nil {
		return err
	}
	w.Visible = true
	if !w.ShowState.Shown() {
		w.ShowState = ShowNormal
	}
	return nil
}

func (b *MemoryBackend) Monitors() ([]Monitor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Monitor(nil), b.monitors...), nil
}

// EventLoop blocks until Disconnect is called.
func (b *MemoryBackend) EventLoop() {
	<-b.done
}

func (b *MemoryBackend) Disconnect() {
	b.doneOnce.Do(func() { close(b.done) })
}

func (b *MemoryBackend) lookupLocked(id WindowID, op Op) (*WindowRecord, error) {
	if err := b.faults[id][op]; err != nil {
		return nil, err
	}
	w, ok := b.windows[id]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", op, id, ErrStaleWindow)
	}
	return w, nil
}
