package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Desktop is the area the grid is laid out over. A zero width or height
// means the primary monitor's bounds are used instead.
type Desktop struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Auto reports whether the desktop area follows the primary monitor.
func (d Desktop) Auto() bool {
	return d.Width == 0 || d.Height == 0
}

// ClassifyMode selects how swap decides which monitor a window is on.
type ClassifyMode string

const (
	ClassifyBoundary ClassifyMode = "boundary" // top edge at or above top_boundary => secondary
	ClassifyCenter   ClassifyMode = "center"   // monitor containing the window center
)

type Swap struct {
	TopBoundary int          `yaml:"top_boundary"`
	Classify    ClassifyMode `yaml:"classify"`
}

type Discovery struct {
	// TitleExceptions are exact window titles accepted whatever their
	// extended style.
	TitleExceptions []string `yaml:"title_exceptions"`
}

// Hotkeys are X11 key sequences in xgbutil keybind syntax. An empty value
// leaves the action unbound.
type Hotkeys struct {
	Arrange string `yaml:"arrange"`
	Swap    string `yaml:"swap"`
	Undo    string `yaml:"undo"`
	Toggle  string `yaml:"toggle"`
	Refresh string `yaml:"refresh"`
}

// LoggingConfig controls the structured logger used by window operations.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type BackendKind string

const (
	BackendNative BackendKind = "native"
	BackendMemory BackendKind = "memory"
)

type Config struct {
	Backend   BackendKind   `yaml:"backend"`
	Display   string        `yaml:"display,omitempty"`
	Desktop   Desktop       `yaml:"desktop"`
	Swap      Swap          `yaml:"swap"`
	Discovery Discovery     `yaml:"discovery"`
	Hotkeys   Hotkeys       `yaml:"hotkeys"`
	Logging   LoggingConfig `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendNative,
		Desktop: Desktop{
			Width:  2560,
			Height: 1440,
		},
		Swap: Swap{
			TopBoundary: -15,
			Classify:    ClassifyBoundary,
		},
		Discovery: Discovery{
			TitleExceptions: []string{"WhatsApp"},
		},
		Hotkeys: Hotkeys{
			Arrange: "Mod4-Mod1-g",
			Swap:    "Mod4-Mod1-s",
			Undo:    "Mod4-Mod1-z",
			Toggle:  "Mod4-Mod1-h",
			Refresh: "Mod4-Mod1-r",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Discovery.TitleExceptions = append([]string(nil), c.Discovery.TitleExceptions...)
	return &out
}

// HotkeyBindings returns the configured hotkeys keyed by action name.
func (c *Config) HotkeyBindings() map[string]string {
	return map[string]string{
		"arrange": c.Hotkeys.Arrange,
		"swap":    c.Hotkeys.Swap,
		"undo":    c.Hotkeys.Undo,
		"toggle":  c.Hotkeys.Toggle,
		"refresh": c.Hotkeys.Refresh,
	}
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
//
// Note: comments from a hand-written file are not preserved.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendNative, BackendMemory:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: native, memory")}
	}
	if c.Desktop.Width < 0 {
		return &ValidationError{Path: "desktop.width", Err: fmt.Errorf("width must be >= 0")}
	}
	if c.Desktop.Height < 0 {
		return &ValidationError{Path: "desktop.height", Err: fmt.Errorf("height must be >= 0")}
	}
	if !c.Desktop.Auto() && c.Desktop.Height < 2 {
		return &ValidationError{Path: "desktop.height", Err: fmt.Errorf("height must leave room for two rows")}
	}
	switch c.Swap.Classify {
	case ClassifyBoundary, ClassifyCenter:
	default:
		return &ValidationError{Path: "swap.classify", Err: fmt.Errorf("classify must be one of: boundary, center")}
	}
	for i, title := range c.Discovery.TitleExceptions {
		if title == "" {
			return &ValidationError{Path: "discovery.title_exceptions", Err: fmt.Errorf("entry %d is empty", i)}
		}
	}
	if err := c.validateHotkeys(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}
	return nil
}

func (c *Config) validateHotkeys() error {
	seen := make(map[string]string)
	for _, action := range []string{"arrange", "swap", "undo", "toggle", "refresh"} {
		key := strings.TrimSpace(c.HotkeyBindings()[action])
		if key == "" {
			continue
		}
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Path: "hotkeys." + action,
				Err:  fmt.Errorf("%q is already bound to %s", key, prev),
			}
		}
		seen[key] = action
	}
	return nil
}

// RestartRequired lists the settings that differ between running and next
// but are only read when the daemon starts.
func RestartRequired(running, next *Config) []string {
	var keys []string
	if running.Backend != next.Backend {
		keys = append(keys, "backend")
	}
	if running.Display != next.Display {
		keys = append(keys, "display")
	}
	if running.Hotkeys != next.Hotkeys {
		keys = append(keys, "hotkeys")
	}
	return keys
}

// NewLogger builds the structured logger described by the logging section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Logging.Level)}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
