package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	backend
//	display
//	desktop.width
//	swap.top_boundary
//	swap.classify
//	discovery.title_exceptions
//	hotkeys.<action>
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)
	if len(parts) > 2 {
		return nil, unknown
	}

	switch parts[0] {
	case "backend":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.Backend, nil
	case "display":
		if len(parts) != 1 {
			return nil, unknown
		}
		return cfg.Display, nil
	case "desktop":
		if len(parts) == 1 {
			return cfg.Desktop, nil
		}
		switch parts[1] {
		case "width":
			return cfg.Desktop.Width, nil
		case "height":
			return cfg.Desktop.Height, nil
		}
	case "swap":
		if len(parts) == 1 {
			return cfg.Swap, nil
		}
		switch parts[1] {
		case "top_boundary":
			return cfg.Swap.TopBoundary, nil
		case "classify":
			return cfg.Swap.Classify, nil
		}
	case "discovery":
		if len(parts) == 1 {
			return cfg.Discovery, nil
		}
		if parts[1] == "title_exceptions" {
			return cfg.Discovery.TitleExceptions, nil
		}
	case "hotkeys":
		if len(parts) == 1 {
			return cfg.Hotkeys, nil
		}
		if key, ok := cfg.HotkeyBindings()[parts[1]]; ok && len(parts) == 2 {
			return key, nil
		}
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "format":
			return cfg.Logging.Format, nil
		}
	}
	return nil, unknown
}
