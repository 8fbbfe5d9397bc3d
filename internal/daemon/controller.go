// Package daemon runs the group engine: one control goroutine owns the
// registry and every user action, window event and config reload is
// funnelled through it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/groupwm/internal/config"
	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/platform"
)

// ErrStopped is returned by Do once the control loop has exited.
var ErrStopped = errors.New("daemon: control loop stopped")

// ActiveWindowSource reports the focused window.
type ActiveWindowSource interface {
	ActiveWindow() (platform.WindowID, error)
}

type op struct {
	fn    func(*group.Registry) error
	reply chan error
}

// Controller serializes access to a group.Registry.
type Controller struct {
	reg     *group.Registry
	tracker *Tracker
	active  ActiveWindowSource
	picker  group.Picker
	logger  *slog.Logger

	ops     chan op
	stopped chan struct{}
}

// Options configures a Controller.
type Options struct {
	Registry *group.Registry
	Tracker  *Tracker
	Active   ActiveWindowSource
	Picker   group.Picker
	Logger   *slog.Logger
}

// NewController creates a controller. Call Run to start the control loop.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		reg:     opts.Registry,
		tracker: opts.Tracker,
		active:  opts.Active,
		picker:  opts.Picker,
		logger:  logger,
		ops:     make(chan op, 64),
		stopped: make(chan struct{}),
	}
}

// Run executes queued operations in order until ctx is cancelled.
// Operations that panic take the process down with them.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.stopped)
	c.logger.Info("control loop started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("control loop stopped")
			return
		case o := <-c.ops:
			o.reply <- o.fn(c.reg)
		}
	}
}

// Do runs fn on the control goroutine and waits for its result.
func (c *Controller) Do(ctx context.Context, fn func(*group.Registry) error) error {
	o := op{fn: fn, reply: make(chan error, 1)}
	select {
	case c.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrStopped
	}
	select {
	case err := <-o.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrStopped
	}
}

// ValidateShortcut rejects group numbers outside 1..NumGroups.
func ValidateShortcut(shortcut int) error {
	if shortcut < 1 || shortcut > group.NumGroups {
		return fmt.Errorf("group %d out of range (1-%d)", shortcut, group.NumGroups)
	}
	return nil
}

// Cycle switches to the next (or previous) non-empty group.
func (c *Controller) Cycle(ctx context.Context, reverse bool) error {
	return c.Do(ctx, func(r *group.Registry) error {
		r.Cycle(reverse)
		return nil
	})
}

// Only shows the group with the given shortcut and hides all others.
func (c *Controller) Only(ctx context.Context, shortcut int) error {
	if err := ValidateShortcut(shortcut); err != nil {
		return err
	}
	return c.Do(ctx, func(r *group.Registry) error {
		r.Only(shortcut - 1)
		return nil
	})
}

// HideToggle flips the visibility of the group with the given shortcut.
func (c *Controller) HideToggle(ctx context.Context, shortcut int) error {
	if err := ValidateShortcut(shortcut); err != nil {
		return err
	}
	return c.Do(ctx, func(r *group.Registry) error {
		r.HideToggle(shortcut - 1)
		return nil
	})
}

// HideAll toggles the hide-all state.
func (c *Controller) HideAll(ctx context.Context) error {
	return c.Do(ctx, func(r *group.Registry) error {
		r.AllToggle()
		return nil
	})
}

// MoveWindow moves a managed window into a group. win 0 means the active
// window.
func (c *Controller) MoveWindow(ctx context.Context, win platform.WindowID, shortcut int) error {
	if err := ValidateShortcut(shortcut); err != nil {
		return err
	}
	win, err := c.resolveWindow(win)
	if err != nil {
		return err
	}
	return c.Do(ctx, func(r *group.Registry) error {
		cl, err := c.tracker.Client(win)
		if err != nil {
			return err
		}
		r.MoveToGroup(cl, shortcut-1)
		return nil
	})
}

// StickyEnter starts a sticky toggle on the active window.
func (c *Controller) StickyEnter(ctx context.Context) error {
	return c.onActiveClient(ctx, (*group.Registry).StickyToggleEnter)
}

// StickyExit ends a sticky toggle on the active window.
func (c *Controller) StickyExit(ctx context.Context) error {
	return c.onActiveClient(ctx, (*group.Registry).StickyToggleExit)
}

func (c *Controller) onActiveClient(ctx context.Context, fn func(*group.Registry, *group.Client)) error {
	win, err := c.resolveWindow(0)
	if err != nil {
		return err
	}
	return c.Do(ctx, func(r *group.Registry) error {
		cl, err := c.tracker.Client(win)
		if err != nil {
			return err
		}
		fn(r, cl)
		return nil
	})
}

func (c *Controller) resolveWindow(win platform.WindowID) (platform.WindowID, error) {
	if win != 0 {
		return win, nil
	}
	if c.active == nil {
		return 0, fmt.Errorf("no active window source")
	}
	active, err := c.active.ActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("get active window: %w", err)
	}
	if active == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return active, nil
}

// Menu shows the group menu and toggles the chosen group.
func (c *Controller) Menu(ctx context.Context) error {
	if c.picker == nil {
		return fmt.Errorf("no palette backend configured")
	}
	return c.Do(ctx, func(r *group.Registry) error {
		return r.Menu(c.picker)
	})
}

// UpdateNames reloads the group names from the display.
func (c *Controller) UpdateNames(ctx context.Context) error {
	return c.Do(ctx, func(r *group.Registry) error {
		r.UpdateNames()
		return nil
	})
}

// Snapshot returns the current group state.
func (c *Controller) Snapshot(ctx context.Context) (group.Snapshot, error) {
	var snap group.Snapshot
	err := c.Do(ctx, func(r *group.Registry) error {
		snap = r.Snapshot()
		return nil
	})
	return snap, err
}

// SyncClients reconciles the tracked clients with the window system.
func (c *Controller) SyncClients(ctx context.Context) error {
	return c.Do(ctx, c.tracker.Sync)
}

// ClientDestroyed forgets a window the window system has destroyed.
func (c *Controller) ClientDestroyed(ctx context.Context, win platform.WindowID) error {
	return c.Do(ctx, func(r *group.Registry) error {
		c.tracker.Forget(r, win)
		return nil
	})
}

// Apply pushes the rule table and sticky flag of cfg into the registry.
func (c *Controller) Apply(ctx context.Context, cfg *config.Config) error {
	return c.Do(ctx, func(r *group.Registry) error {
		r.SetRules(cfg.Rules())
		r.SetSticky(cfg.StickyGroups)
		c.logger.Info("configuration applied", "rules", len(cfg.Autogroup), "sticky", cfg.StickyGroups)
		return nil
	})
}
