package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	sticky_groups
//	autogroup
//	autogroup.<index>
//	palette_backend
//	log_level
//	display
//	reconcile_interval_seconds
//	cycle_hotkey
//	group_hotkeys.<shortcut>
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
	single := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "sticky_groups":
		return single(cfg.StickyGroups)
	case "palette_backend":
		return single(cfg.PaletteBackend)
	case "log_level":
		return single(cfg.LogLevel)
	case "display":
		return single(cfg.Display)
	case "reconcile_interval_seconds":
		return single(cfg.ReconcileIntervalSeconds)
	case "cycle_hotkey":
		return single(cfg.CycleHotkey)
	case "cycle_reverse_hotkey":
		return single(cfg.CycleReverseHotkey)
	case "hide_all_hotkey":
		return single(cfg.HideAllHotkey)
	case "menu_hotkey":
		return single(cfg.MenuHotkey)
	case "sticky_hotkey":
		return single(cfg.StickyHotkey)
	case "autogroup":
		if len(parts) == 1 {
			return cfg.Autogroup, nil
		}
		i, err := strconv.Atoi(parts[1])
		if len(parts) != 2 || err != nil || i < 0 || i >= len(cfg.Autogroup) {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Autogroup[i], nil
	case "group_hotkeys", "toggle_hotkeys", "move_hotkeys":
		m := cfg.hotkeyMap(parts[0])
		if len(parts) == 1 {
			return m, nil
		}
		shortcut, err := strconv.Atoi(parts[1])
		if len(parts) != 2 || err != nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		key, ok := m[shortcut]
		if !ok {
			return nil, fmt.Errorf("%s: no binding for group %d", parts[0], shortcut)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
