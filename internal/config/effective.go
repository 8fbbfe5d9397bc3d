package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies a merged raw config on top of the defaults.
// Hotkey maps are patched per shortcut; an empty string unbinds a default.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.StickyGroups != nil {
		cfg.StickyGroups = *raw.StickyGroups
	}
	if raw.Autogroup != nil {
		cfg.Autogroup = append(AutogroupList(nil), (*raw.Autogroup)...)
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = *raw.PaletteBackend
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.ReconcileIntervalSeconds != nil {
		cfg.ReconcileIntervalSeconds = *raw.ReconcileIntervalSeconds
	}
	if raw.CycleHotkey != nil {
		cfg.CycleHotkey = *raw.CycleHotkey
	}
	if raw.CycleReverseHotkey != nil {
		cfg.CycleReverseHotkey = *raw.CycleReverseHotkey
	}
	if raw.HideAllHotkey != nil {
		cfg.HideAllHotkey = *raw.HideAllHotkey
	}
	if raw.MenuHotkey != nil {
		cfg.MenuHotkey = *raw.MenuHotkey
	}
	if raw.StickyHotkey != nil {
		cfg.StickyHotkey = *raw.StickyHotkey
	}
	cfg.GroupHotkeys = patchHotkeys(cfg.GroupHotkeys, raw.GroupHotkeys)
	cfg.ToggleHotkeys = patchHotkeys(cfg.ToggleHotkeys, raw.ToggleHotkeys)
	cfg.MoveHotkeys = patchHotkeys(cfg.MoveHotkeys, raw.MoveHotkeys)

	return cfg
}

func patchHotkeys(defaults, patch map[int]string) map[int]string {
	out := mergeIntMap(defaults, patch)
	for k, v := range out {
		if v == "" {
			delete(out, k)
		}
	}
	return out
}
