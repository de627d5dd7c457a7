// Package directory discovers the top-level windows gridis is allowed to
// arrange.
package directory

import (
	"log/slog"

	"github.com/1broseidon/gridis/internal/platform"
)

// DefaultTitleExceptions are titles accepted regardless of their style bits.
var DefaultTitleExceptions = []string{"WhatsApp"}

// Filter decides whether a discovered window is an arrangeable application
// window.
type Filter struct {
	// TitleExceptions are exact titles that bypass the extended-style check.
	// The tool-window exclusion still applies to them.
	TitleExceptions []string
}

// NewFilter returns a filter with the given title exceptions.
func NewFilter(exceptions []string) Filter {
	return Filter{TitleExceptions: append([]string(nil), exceptions...)}
}

// Accept reports whether rec passes every inclusion rule.
func (f Filter) Accept(rec platform.WindowRecord) bool {
	return f.Reject(rec) == ""
}

// Reject returns the first inclusion rule rec fails, or "" when it is
// accepted.
func (f Filter) Reject(rec platform.WindowRecord) string {
	switch {
	case !rec.Visible:
		return "not visible"
	case rec.Title == "":
		return "empty title"
	case !rec.ShowState.Shown():
		return "hidden placement"
	case rec.Rect.Unset():
		return "unset rectangle"
	case rec.ExStyle.Has(platform.StyleToolWindow):
		return "tool window"
	}

	if rec.ExStyle == platform.StyleWindowEdge ||
		rec.ExStyle.Has(platform.StyleAppWindow) ||
		f.isException(rec.Title) {
		return ""
	}
	return "not an application window"
}

func (f Filter) isException(title string) bool {
	for _, t := range f.TitleExceptions {
		if title == t {
			return true
		}
	}
	return false
}

// Scan enumerates top-level windows and returns the records that pass the
// filter, in enumeration order. An enumeration failure is logged and yields
// no windows. Windows that cannot be described are skipped.
func Scan(backend platform.Backend, filter Filter, logger *slog.Logger) []platform.WindowRecord {
	if logger == nil {
		logger = slog.Default()
	}

	var accepted []platform.WindowRecord
	err := backend.EnumWindows(func(id platform.WindowID) bool {
		rec, err := backend.Describe(id)
		if err != nil {
			logger.Debug("skipping window", "window", id, "op", "describe", "error", err)
			return true
		}
		if reason := filter.Reject(rec); reason != "" {
			logger.Debug("window filtered", "window", id, "title", rec.Title, "reason", reason)
			return true
		}
		accepted = append(accepted, rec)
		return true
	})
	if err != nil {
		logger.Warn("window enumeration failed", "op", "enumerate", "error", err)
		return nil
	}
	return accepted
}

// Discover returns the handles of all accepted windows in enumeration order.
func Discover(backend platform.Backend, filter Filter, logger *slog.Logger) []platform.WindowID {
	records := Scan(backend, filter, logger)
	ids := make([]platform.WindowID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
