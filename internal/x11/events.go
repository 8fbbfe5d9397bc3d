package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// OnClientListChange calls fn from the event loop whenever the root
// window's _NET_CLIENT_LIST property changes.
func (c *Connection) OnClientListChange(fn func()) error {
	atom, err := xprop.Atm(c.XUtil, "_NET_CLIENT_LIST")
	if err != nil {
		return fmt.Errorf("intern _NET_CLIENT_LIST: %w", err)
	}

	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == atom {
			fn()
		}
	}).Connect(c.XUtil, c.Root)
	return nil
}

// WatchDestroy selects StructureNotify on win and calls fn from the event
// loop once the window is destroyed.
func (c *Connection) WatchDestroy(win xproto.Window, fn func(xproto.Window)) error {
	if err := xwindow.New(c.XUtil, win).Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("listen on %#x: %w", win, err)
	}
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		// Callbacks run under the callback lock; detach after they return.
		go xevent.Detach(xu, ev.Window)
		fn(ev.Window)
	}).Connect(c.XUtil, win)
	return nil
}
