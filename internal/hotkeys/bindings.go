// Package hotkeys binds the configured key sequences to group commands.
package hotkeys

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/groupwm/internal/config"
	"github.com/1broseidon/groupwm/internal/platform"
)

// Actions is the set of commands a key binding can trigger.
type Actions interface {
	Cycle(ctx context.Context, reverse bool) error
	Only(ctx context.Context, shortcut int) error
	HideToggle(ctx context.Context, shortcut int) error
	HideAll(ctx context.Context) error
	MoveWindow(ctx context.Context, win platform.WindowID, shortcut int) error
	Menu(ctx context.Context) error
	StickyEnter(ctx context.Context) error
	StickyExit(ctx context.Context) error
}

// Binding ties a key sequence to the action run when it is pressed and,
// optionally, when it is released.
type Binding struct {
	Path    string
	Key     string
	Press   func(context.Context) error
	Release func(context.Context) error
}

// repeatGrace is how long a key release waits for the press an X server
// sends right after it while a key auto-repeats.
const repeatGrace = 40 * time.Millisecond

// Bindings builds the binding table for cfg. Errors from deferred actions
// are logged to logger.
func Bindings(cfg *config.Config, a Actions, logger *slog.Logger) []Binding {
	if logger == nil {
		logger = slog.Default()
	}
	hotkeys := cfg.Hotkeys()
	out := make([]Binding, 0, len(hotkeys))
	for _, hk := range hotkeys {
		b := Binding{Path: hk.Path, Key: hk.Key}
		switch hk.Path {
		case "cycle_hotkey":
			b.Press = func(ctx context.Context) error { return a.Cycle(ctx, false) }
		case "cycle_reverse_hotkey":
			b.Press = func(ctx context.Context) error { return a.Cycle(ctx, true) }
		case "hide_all_hotkey":
			b.Press = a.HideAll
		case "menu_hotkey":
			b.Press = a.Menu
		case "sticky_hotkey":
			k := &holdKey{enter: a.StickyEnter, exit: a.StickyExit, grace: repeatGrace, logger: logger}
			b.Press = k.press
			b.Release = k.release
		default:
			press, ok := numbered(hk.Path, a)
			if !ok {
				continue
			}
			b.Press = press
		}
		out = append(out, b)
	}
	return out
}

// numbered resolves a "<map>.<shortcut>" path such as "group_hotkeys.3".
func numbered(path string, a Actions) (func(context.Context) error, bool) {
	name, num, ok := strings.Cut(path, ".")
	if !ok {
		return nil, false
	}
	shortcut, err := strconv.Atoi(num)
	if err != nil {
		return nil, false
	}
	switch name {
	case "group_hotkeys":
		return func(ctx context.Context) error { return a.Only(ctx, shortcut) }, true
	case "toggle_hotkeys":
		return func(ctx context.Context) error { return a.HideToggle(ctx, shortcut) }, true
	case "move_hotkeys":
		return func(ctx context.Context) error { return a.MoveWindow(ctx, 0, shortcut) }, true
	}
	return nil, false
}

// holdKey turns the events of a held key into one enter and one exit.
// Auto-repeat shows up either as extra presses or as release/press pairs in
// quick succession; both are swallowed. The exit runs grace after the last
// release.
type holdKey struct {
	enter, exit func(context.Context) error
	grace       time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	held    bool
	pending *time.Timer
}

func (k *holdKey) press(ctx context.Context) error {
	k.mu.Lock()
	if k.pending != nil {
		k.pending.Stop()
		k.pending = nil
		k.mu.Unlock()
		return nil
	}
	if k.held {
		k.mu.Unlock()
		return nil
	}
	k.held = true
	k.mu.Unlock()
	return k.enter(ctx)
}

func (k *holdKey) release(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.held || k.pending != nil {
		return nil
	}
	var t *time.Timer
	t = time.AfterFunc(k.grace, func() {
		k.mu.Lock()
		if k.pending != t {
			k.mu.Unlock()
			return
		}
		k.pending = nil
		k.held = false
		k.mu.Unlock()
		if err := k.exit(ctx); err != nil {
			k.logger.Warn("hotkey release failed", "error", err)
		}
	})
	k.pending = t
	return nil
}
