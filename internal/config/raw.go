package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is one YAML file as written. Nil fields were not set and do not
// override earlier files.
type RawConfig struct {
	Include                  IncludeList    `yaml:"include"`
	StickyGroups             *bool          `yaml:"sticky_groups"`
	Autogroup                *AutogroupList `yaml:"autogroup"`
	PaletteBackend           *string        `yaml:"palette_backend"`
	LogLevel                 *string        `yaml:"log_level"`
	Display                  *string        `yaml:"display"`
	ReconcileIntervalSeconds *int           `yaml:"reconcile_interval_seconds"`
	CycleHotkey              *string        `yaml:"cycle_hotkey"`
	CycleReverseHotkey       *string        `yaml:"cycle_reverse_hotkey"`
	HideAllHotkey            *string        `yaml:"hide_all_hotkey"`
	MenuHotkey               *string        `yaml:"menu_hotkey"`
	StickyHotkey             *string        `yaml:"sticky_hotkey"`
	GroupHotkeys             map[int]string `yaml:"group_hotkeys"`
	ToggleHotkeys            map[int]string `yaml:"toggle_hotkeys"`
	MoveHotkeys              map[int]string `yaml:"move_hotkeys"`
}

// merge overlays o on r. Scalars and the autogroup list are replaced
// wholesale; hotkey maps are merged per shortcut.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil

	if o.StickyGroups != nil {
		out.StickyGroups = o.StickyGroups
	}
	if o.Autogroup != nil {
		out.Autogroup = o.Autogroup
	}
	if o.PaletteBackend != nil {
		out.PaletteBackend = o.PaletteBackend
	}
	if o.LogLevel != nil {
		out.LogLevel = o.LogLevel
	}
	if o.Display != nil {
		out.Display = o.Display
	}
	if o.ReconcileIntervalSeconds != nil {
		out.ReconcileIntervalSeconds = o.ReconcileIntervalSeconds
	}
	if o.CycleHotkey != nil {
		out.CycleHotkey = o.CycleHotkey
	}
	if o.CycleReverseHotkey != nil {
		out.CycleReverseHotkey = o.CycleReverseHotkey
	}
	if o.HideAllHotkey != nil {
		out.HideAllHotkey = o.HideAllHotkey
	}
	if o.MenuHotkey != nil {
		out.MenuHotkey = o.MenuHotkey
	}
	if o.StickyHotkey != nil {
		out.StickyHotkey = o.StickyHotkey
	}
	out.GroupHotkeys = mergeIntMap(r.GroupHotkeys, o.GroupHotkeys)
	out.ToggleHotkeys = mergeIntMap(r.ToggleHotkeys, o.ToggleHotkeys)
	out.MoveHotkeys = mergeIntMap(r.MoveHotkeys, o.MoveHotkeys)
	return out
}

func mergeIntMap(base, overlay map[int]string) map[int]string {
	if base == nil && overlay == nil {
		return nil
	}
	out := make(map[int]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
