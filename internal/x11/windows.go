package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// HideWindow unmaps a window and marks it iconic.
func (c *Connection) HideWindow(win xproto.Window) error {
	if err := xproto.UnmapWindowChecked(c.XUtil.Conn(), win).Check(); err != nil {
		return fmt.Errorf("unmap %#x: %w", win, err)
	}
	state := &icccm.WmState{State: icccm.StateIconic}
	if err := icccm.WmStateSet(c.XUtil, win, state); err != nil {
		return fmt.Errorf("set WM_STATE on %#x: %w", win, err)
	}
	return nil
}

// ShowWindow maps a window and marks it normal.
func (c *Connection) ShowWindow(win xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), win).Check(); err != nil {
		return fmt.Errorf("map %#x: %w", win, err)
	}
	state := &icccm.WmState{State: icccm.StateNormal}
	if err := icccm.WmStateSet(c.XUtil, win, state); err != nil {
		return fmt.Errorf("set WM_STATE on %#x: %w", win, err)
	}
	return nil
}

// SetBorderColor changes the border pixel of a window.
func (c *Connection) SetBorderColor(win xproto.Window, pixel uint32) error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		win,
		xproto.CwBorderPixel,
		[]uint32{pixel},
	).Check()
	if err != nil {
		return fmt.Errorf("set border on %#x: %w", win, err)
	}
	return nil
}

// WindowClass returns the WM_CLASS instance and class names of a window.
// Both are empty when the property is missing.
func (c *Connection) WindowClass(win xproto.Window) (instance, class string) {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", ""
	}
	return wmClass.Instance, wmClass.Class
}

// WindowTitle returns the EWMH title, falling back to WM_NAME.
func (c *Connection) WindowTitle(win xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, win)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// ClientList returns _NET_CLIENT_LIST.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	wins, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("get _NET_CLIENT_LIST: %w", err)
	}
	return wins, nil
}

// ActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("get _NET_ACTIVE_WINDOW: %w", err)
	}
	return win, nil
}
