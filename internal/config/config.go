package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/groupwm/internal/group"
)

// AutogroupRule places windows of a class (and optionally an instance name)
// into a group on first sight.
type AutogroupRule struct {
	Class string `yaml:"class"`
	Name  string `yaml:"name,omitempty"`
	Group int    `yaml:"group"`
}

// AutogroupList supports either:
//
//	autogroup:
//	  - match: "xterm,XTerm"
//	    group: 2
//
// or:
//
//	autogroup:
//	  - class: XTerm
//	    name: xterm
//	    group: 2
type AutogroupList []AutogroupRule

func (l *AutogroupList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.SequenceNode:
		out := make([]AutogroupRule, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: autogroup entries must be mappings", item.Line)
			}
			rule, err := decodeAutogroupMapping(item)
			if err != nil {
				return err
			}
			out = append(out, rule)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("autogroup must be a list")
	}
}

func decodeAutogroupMapping(node *yaml.Node) (AutogroupRule, error) {
	var entry struct {
		Match *string `yaml:"match"`
		Class string  `yaml:"class"`
		Name  string  `yaml:"name"`
		Group *int    `yaml:"group"`
	}
	if err := node.Decode(&entry); err != nil {
		return AutogroupRule{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	if entry.Group == nil {
		return AutogroupRule{}, fmt.Errorf("line %d: autogroup entry needs a group", node.Line)
	}

	if entry.Match != nil {
		if entry.Class != "" || entry.Name != "" {
			return AutogroupRule{}, fmt.Errorf("line %d: use either match or class/name, not both", node.Line)
		}
		rule, err := group.ParseRule(*entry.Match, *entry.Group)
		if err != nil {
			return AutogroupRule{}, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return AutogroupRule{Class: rule.Class, Name: rule.Instance, Group: rule.Group}, nil
	}

	return AutogroupRule{
		Class: strings.TrimSpace(entry.Class),
		Name:  strings.TrimSpace(entry.Name),
		Group: *entry.Group,
	}, nil
}

// Config is the effective daemon configuration.
type Config struct {
	StickyGroups             bool          `yaml:"sticky_groups"`
	Autogroup                AutogroupList `yaml:"autogroup"`
	PaletteBackend           string        `yaml:"palette_backend"`
	LogLevel                 string        `yaml:"log_level"`
	Display                  string        `yaml:"display,omitempty"`
	ReconcileIntervalSeconds int           `yaml:"reconcile_interval_seconds"`

	CycleHotkey        string         `yaml:"cycle_hotkey"`
	CycleReverseHotkey string         `yaml:"cycle_reverse_hotkey"`
	HideAllHotkey      string         `yaml:"hide_all_hotkey"`
	MenuHotkey         string         `yaml:"menu_hotkey"`
	StickyHotkey       string         `yaml:"sticky_hotkey"`
	GroupHotkeys       map[int]string `yaml:"group_hotkeys"`
	ToggleHotkeys      map[int]string `yaml:"toggle_hotkeys"`
	MoveHotkeys        map[int]string `yaml:"move_hotkeys"`
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "groupwm", "config.yaml"), nil
}

func DefaultConfig() *Config {
	return &Config{
		PaletteBackend:           "auto",
		LogLevel:                 "info",
		ReconcileIntervalSeconds: 5,

		CycleHotkey:        "Mod4-Right",
		CycleReverseHotkey: "Mod4-Left",
		HideAllHotkey:      "Mod4-Control-a",
		MenuHotkey:         "Mod4-Mod1-g",
		StickyHotkey:       "Mod4-Control-g",
		GroupHotkeys:       numberedHotkeys("Mod4-"),
		ToggleHotkeys:      numberedHotkeys("Mod4-Control-"),
		MoveHotkeys:        numberedHotkeys("Mod4-Shift-"),
	}
}

// numberedHotkeys binds shortcut n to prefix+n, with 10 on the 0 key.
func numberedHotkeys(prefix string) map[int]string {
	out := make(map[int]string, group.NumGroups)
	for shortcut := 1; shortcut <= group.NumGroups; shortcut++ {
		out[shortcut] = fmt.Sprintf("%s%d", prefix, shortcut%10)
	}
	return out
}

// Rules converts the autogroup list into engine rules.
func (c *Config) Rules() []group.Rule {
	rules := make([]group.Rule, 0, len(c.Autogroup))
	for _, r := range c.Autogroup {
		rules = append(rules, group.Rule{Class: r.Class, Instance: r.Name, Group: r.Group})
	}
	return rules
}

// ParseLogLevel maps a log_level value onto a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// PaletteBackends lists the accepted palette_backend values.
var PaletteBackends = []string{"auto", "rofi", "fuzzel", "wofi", "dmenu", "terminal"}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
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
	for i, r := range c.Autogroup {
		path := fmt.Sprintf("autogroup.%d", i)
		if r.Class == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("class must not be empty")}
		}
		if r.Group < group.NoGroup || r.Group > group.NumGroups {
			return &ValidationError{Path: path, Err: fmt.Errorf("group must be between %d and %d", group.NoGroup, group.NumGroups)}
		}
	}

	validBackend := false
	for _, b := range PaletteBackends {
		if c.PaletteBackend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: %s", strings.Join(PaletteBackends, ", "))}
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}

	for name, m := range map[string]map[int]string{
		"group_hotkeys":  c.GroupHotkeys,
		"toggle_hotkeys": c.ToggleHotkeys,
		"move_hotkeys":   c.MoveHotkeys,
	} {
		for shortcut := range m {
			if shortcut < 1 || shortcut > group.NumGroups {
				return &ValidationError{Path: fmt.Sprintf("%s.%d", name, shortcut), Err: fmt.Errorf("group must be between 1 and %d", group.NumGroups)}
			}
		}
	}

	if path, key, ok := c.duplicateHotkey(); ok {
		return &ValidationError{Path: path, Err: fmt.Errorf("key %q is bound more than once", key)}
	}
	return nil
}

// Hotkeys returns every configured binding keyed by its YAML path, in a
// stable order. Empty bindings are skipped.
func (c *Config) Hotkeys() []Hotkey {
	var out []Hotkey
	add := func(path, key string) {
		if strings.TrimSpace(key) != "" {
			out = append(out, Hotkey{Path: path, Key: key})
		}
	}
	add("cycle_hotkey", c.CycleHotkey)
	add("cycle_reverse_hotkey", c.CycleReverseHotkey)
	add("hide_all_hotkey", c.HideAllHotkey)
	add("menu_hotkey", c.MenuHotkey)
	add("sticky_hotkey", c.StickyHotkey)
	for _, name := range []string{"group_hotkeys", "toggle_hotkeys", "move_hotkeys"} {
		m := c.hotkeyMap(name)
		for _, shortcut := range sortedShortcuts(m) {
			add(fmt.Sprintf("%s.%d", name, shortcut), m[shortcut])
		}
	}
	return out
}

// Hotkey is one configured key binding.
type Hotkey struct {
	Path string
	Key  string
}

func (c *Config) hotkeyMap(name string) map[int]string {
	switch name {
	case "group_hotkeys":
		return c.GroupHotkeys
	case "toggle_hotkeys":
		return c.ToggleHotkeys
	case "move_hotkeys":
		return c.MoveHotkeys
	}
	return nil
}

func (c *Config) duplicateHotkey() (string, string, bool) {
	seen := make(map[string]bool)
	for _, hk := range c.Hotkeys() {
		if seen[hk.Key] {
			return hk.Path, hk.Key, true
		}
		seen[hk.Key] = true
	}
	return "", "", false
}

func sortedShortcuts(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
