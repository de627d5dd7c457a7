package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Desktop.Width != 2560 || cfg.Desktop.Height != 1440 {
		t.Fatalf("expected 2560x1440 desktop, got %dx%d", cfg.Desktop.Width, cfg.Desktop.Height)
	}
	if cfg.Swap.TopBoundary != -15 {
		t.Fatalf("expected top_boundary -15, got %d", cfg.Swap.TopBoundary)
	}
	if len(cfg.Discovery.TitleExceptions) != 1 || cfg.Discovery.TitleExceptions[0] != "WhatsApp" {
		t.Fatalf("unexpected title exceptions %v", cfg.Discovery.TitleExceptions)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Path != "" {
		t.Fatalf("expected no file path, got %q", res.Path)
	}
	if res.Config.Swap.Classify != ClassifyBoundary {
		t.Fatalf("expected boundary classifier, got %q", res.Config.Swap.Classify)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Backend != BackendNative {
		t.Fatalf("expected native backend, got %q", res.Config.Backend)
	}
}

func TestLoadFromPath_OverridesKeepOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"desktop:",
		"  width: 1920",
		"swap:",
		"  top_boundary: -40",
		"discovery:",
		"  title_exceptions: [\"Signal\", \"WhatsApp\"]",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Desktop.Width != 1920 || cfg.Desktop.Height != 1440 {
		t.Fatalf("expected 1920x1440, got %dx%d", cfg.Desktop.Width, cfg.Desktop.Height)
	}
	if cfg.Swap.TopBoundary != -40 {
		t.Fatalf("expected top_boundary -40, got %d", cfg.Swap.TopBoundary)
	}
	if cfg.Swap.Classify != ClassifyBoundary {
		t.Fatalf("expected classify default to survive, got %q", cfg.Swap.Classify)
	}
	if len(cfg.Discovery.TitleExceptions) != 2 {
		t.Fatalf("expected two exceptions, got %v", cfg.Discovery.TitleExceptions)
	}

	src, ok := res.Sources["swap.top_boundary"]
	if !ok || src.Kind != SourceFile || src.Line != 4 {
		t.Fatalf("expected swap.top_boundary source at line 4, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "logging:\n  level: loud\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "logging.level" {
		t.Fatalf("expected path logging.level, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("expected file:line context, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"backend":                    func(c *Config) { c.Backend = "wayland" },
		"desktop.width":              func(c *Config) { c.Desktop.Width = -1 },
		"desktop.height":             func(c *Config) { c.Desktop.Height = 1 },
		"swap.classify":              func(c *Config) { c.Swap.Classify = "nearest" },
		"discovery.title_exceptions": func(c *Config) { c.Discovery.TitleExceptions = []string{""} },
		"hotkeys.undo":               func(c *Config) { c.Hotkeys.Undo = c.Hotkeys.Arrange },
		"logging.format":             func(c *Config) { c.Logging.Format = "xml" },
	}
	for path, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		err := cfg.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", path, err)
		}
		if verr.Path != path {
			t.Fatalf("%s: got path %q", path, verr.Path)
		}
	}
}

func TestValidate_AutoDesktopAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Desktop = Desktop{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected zero desktop to validate, got %v", err)
	}
	if !cfg.Desktop.Auto() {
		t.Fatalf("expected zero desktop to be auto")
	}
}

func TestSaveTo_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Swap.Classify = ClassifyCenter
	cfg.Hotkeys.Refresh = ""
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Swap.Classify != ClassifyCenter {
		t.Fatalf("expected center classifier, got %q", res.Config.Swap.Classify)
	}
	if res.Config.Hotkeys.Refresh != "" {
		t.Fatalf("expected refresh hotkey to stay unbound, got %q", res.Config.Hotkeys.Refresh)
	}
}

func TestExplain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("hotkeys:\n  swap: Mod4-F2\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "hotkeys.swap")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != "Mod4-F2" || src.Kind != SourceFile {
		t.Fatalf("unexpected explain result %v %#v", value, src)
	}

	value, src, err = Explain(res, "swap.top_boundary")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != -15 || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %v %#v", value, src)
	}

	if _, _, err := Explain(res, "hotkeys.palette"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestNewLogger_RespectsLevelAndFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "window", "0x1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"window":"0x1"`) {
		t.Fatalf("expected json warn record, got %s", out)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("swap:\n  top_boundary: -15\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan *Config, 4)
	w, err := NewWatcher(path, nil, func(cfg *Config) { changed <- cfg })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("swap:\n  top_boundary: -99\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case cfg := <-changed:
		if cfg.Swap.TopBoundary != -99 {
			t.Fatalf("expected reloaded top_boundary -99, got %d", cfg.Swap.TopBoundary)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
}

func TestRestartRequired(t *testing.T) {
	running := DefaultConfig()

	next := running.Clone()
	next.Swap.TopBoundary = -40
	next.Logging.Level = "debug"
	next.Discovery.TitleExceptions = []string{"Slack"}
	if keys := RestartRequired(running, next); len(keys) != 0 {
		t.Fatalf("hot-reloadable changes reported as restart-only: %v", keys)
	}

	next.Backend = BackendMemory
	next.Display = ":1"
	next.Hotkeys.Arrange = "Mod4-g"
	got := strings.Join(RestartRequired(running, next), ",")
	if got != "backend,display,hotkeys" {
		t.Fatalf("RestartRequired = %q, want backend,display,hotkeys", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcher_SetLoggerRoutesReloadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("swap:\n  top_boundary: -15\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path, nil, func(*Config) {})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	var out syncBuffer
	w.SetLogger(slog.New(slog.NewTextHandler(&out, nil)))
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("bogus_key: 1\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "config reload failed") {
		if time.Now().After(deadline) {
			t.Fatalf("reload failure not logged through the new logger; got %q", out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}
