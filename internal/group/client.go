package group

import "github.com/1broseidon/groupwm/internal/platform"

// Client is the group engine's record of one managed window. It is owned by
// the client tracker, which must call Registry.ClientDestroyed before
// dropping it.
type Client struct {
	Window   platform.WindowID
	Class    string
	Instance string

	hidden    bool
	group     *Group
	highlight platform.Highlight
}

// NewClient wraps a managed window.
func NewClient(w platform.Window) *Client {
	return &Client{
		Window:   w.ID,
		Class:    w.Class,
		Instance: w.Instance,
	}
}

// Group returns the group the client belongs to, or nil.
func (c *Client) Group() *Group { return c.group }

// Hidden reports whether the client is currently not displayed.
func (c *Client) Hidden() bool { return c.hidden }

// Highlight returns the current border highlight.
func (c *Client) Highlight() platform.Highlight { return c.highlight }

func (r *Registry) hideClient(c *Client) {
	if err := r.windows.Hide(c.Window); err != nil {
		r.logger.Warn("failed to hide window", "window", c.Window, "error", err)
	}
	c.hidden = true
}

func (r *Registry) unhideClient(c *Client) {
	if err := r.windows.Unhide(c.Window); err != nil {
		r.logger.Warn("failed to unhide window", "window", c.Window, "error", err)
	}
	c.hidden = false
}

func (r *Registry) drawBorder(c *Client) {
	if err := r.windows.DrawBorder(c.Window, c.highlight); err != nil {
		r.logger.Debug("failed to draw border", "window", c.Window, "error", err)
	}
}
