package daemon

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/platform"
)

// ClientSource lists the managed top-level windows.
type ClientSource interface {
	Clients() ([]platform.Window, error)
}

// DestroyWatcher reports the destruction of a single window. Sources that
// implement it are asked to watch every client the tracker adopts.
type DestroyWatcher interface {
	WatchDestroy(win platform.WindowID) error
}

// Tracker owns the group.Client records for the windows the window system
// currently manages. Its methods must run on the control goroutine.
type Tracker struct {
	source  ClientSource
	watcher DestroyWatcher
	clients map[platform.WindowID]*group.Client
	logger  *slog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(source ClientSource, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	watcher, _ := source.(DestroyWatcher)
	return &Tracker{
		source:  source,
		watcher: watcher,
		clients: make(map[platform.WindowID]*group.Client),
		logger:  logger,
	}
}

// Sync classifies new windows and forgets the visible ones that left the
// client list. Hidden clients are unmapped and so drop out of the list while
// their window lives on; they are only forgotten through Forget.
func (t *Tracker) Sync(r *group.Registry) error {
	wins, err := t.source.Clients()
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}

	present := make(map[platform.WindowID]bool, len(wins))
	for _, w := range wins {
		present[w.ID] = true
		if _, ok := t.clients[w.ID]; ok {
			continue
		}
		c := group.NewClient(w)
		t.clients[w.ID] = c
		if t.watcher != nil {
			if err := t.watcher.WatchDestroy(w.ID); err != nil {
				t.logger.Debug("failed to watch window", "window", w.ID, "error", err)
			}
		}
		r.Autogroup(c)
		t.logger.Debug("client managed", "window", w.ID, "class", w.Class, "instance", w.Instance)
	}

	for id, c := range t.clients {
		if present[id] || c.Hidden() {
			continue
		}
		t.forget(r, id, c)
	}
	return nil
}

// Forget drops the record of a destroyed window. It reports whether the
// window was tracked.
func (t *Tracker) Forget(r *group.Registry, win platform.WindowID) bool {
	c, ok := t.clients[win]
	if ok {
		t.forget(r, win, c)
	}
	return ok
}

func (t *Tracker) forget(r *group.Registry, win platform.WindowID, c *group.Client) {
	r.ClientDestroyed(c)
	delete(t.clients, win)
	t.logger.Debug("client gone", "window", win)
}

// Client returns the tracked record for win.
func (t *Tracker) Client(win platform.WindowID) (*group.Client, error) {
	c, ok := t.clients[win]
	if !ok {
		return nil, fmt.Errorf("window %#x is not managed", uint32(win))
	}
	return c, nil
}

// Len returns the number of tracked clients.
func (t *Tracker) Len() int { return len(t.clients) }
