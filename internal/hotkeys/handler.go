package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/1broseidon/gridis/internal/platform"
	"github.com/1broseidon/gridis/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ErrNoX11 is returned when the backend has no X11 connection to grab keys on.
var ErrNoX11 = errors.New("global hotkeys need an X11 backend")

// Controller is the set of triggers a hotkey can fire.
type Controller interface {
	Arrange() (tiling.Report, error)
	SwapMonitors() (tiling.Report, error)
	Undo() (tiling.Report, error)
	ToggleVisibility() bool
	Refresh() int
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	ctrl Controller
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, ctrl Controller) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, ErrNoX11
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:   xu,
		root: accessor.RootWindow(),
		ctrl: ctrl,
	}, nil
}

// Actions maps action names to the controller call they trigger.
func Actions(ctrl Controller) map[string]func() {
	operation := func(name string, op func() (tiling.Report, error)) func() {
		return func() {
			log.Printf("%s hotkey triggered", name)
			report, err := op()
			if err != nil {
				log.Printf("Warning: %s failed: %v", name, err)
				return
			}
			log.Printf("%s: %d of %d windows processed", name, report.Processed, report.Requested)
		}
	}

	return map[string]func(){
		"arrange": operation("arrange", ctrl.Arrange),
		"swap":    operation("swap", ctrl.SwapMonitors),
		"undo":    operation("undo", ctrl.Undo),
		"toggle": func() {
			log.Printf("toggle hotkey triggered (visible: %v)", ctrl.ToggleVisibility())
		},
		"refresh": func() {
			log.Printf("refresh hotkey triggered (%d windows)", ctrl.Refresh())
		},
	}
}

// RegisterAll binds every non-empty key sequence in bindings (action name to
// key sequence). Failures are collected so one bad binding does not block
// the others.
func (h *Handler) RegisterAll(bindings map[string]string) error {
	actions := Actions(h.ctrl)

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		key := bindings[name]
		if key == "" {
			continue
		}
		action, ok := actions[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown hotkey action %q", name))
			continue
		}
		if err := h.RegisterFunc(key, action); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s hotkey %q: %w", name, key, err))
			continue
		}
		log.Printf("%s hotkey registered: %s", name, key)
	}
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	unique[0] = struct{}{}

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
