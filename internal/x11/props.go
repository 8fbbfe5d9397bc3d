package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// NoDesktop is the _NET_WM_DESKTOP value for windows that are on no
// particular desktop.
const NoDesktop = 0xFFFFFFFF

// SetNumberOfDesktops publishes _NET_NUMBER_OF_DESKTOPS.
func (c *Connection) SetNumberOfDesktops(n int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(n)); err != nil {
		return fmt.Errorf("set _NET_NUMBER_OF_DESKTOPS: %w", err)
	}
	return nil
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP.
func (c *Connection) SetCurrentDesktop(index int) error {
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(index)); err != nil {
		return fmt.Errorf("set _NET_CURRENT_DESKTOP: %w", err)
	}
	return nil
}

// SetDesktopViewport publishes a single _NET_DESKTOP_VIEWPORT origin.
func (c *Connection) SetDesktopViewport(x, y int) error {
	vp := []ewmh.DesktopViewport{{X: x, Y: y}}
	if err := ewmh.DesktopViewportSet(c.XUtil, vp); err != nil {
		return fmt.Errorf("set _NET_DESKTOP_VIEWPORT: %w", err)
	}
	return nil
}

// SetShowingDesktop publishes _NET_SHOWING_DESKTOP.
func (c *Connection) SetShowingDesktop(showing bool) error {
	if err := ewmh.ShowingDesktopSet(c.XUtil, showing); err != nil {
		return fmt.Errorf("set _NET_SHOWING_DESKTOP: %w", err)
	}
	return nil
}

// ClearVirtualRoots deletes _NET_VIRTUAL_ROOTS from the root window.
func (c *Connection) ClearVirtualRoots() error {
	atom, err := xprop.Atm(c.XUtil, "_NET_VIRTUAL_ROOTS")
	if err != nil {
		return fmt.Errorf("intern _NET_VIRTUAL_ROOTS: %w", err)
	}
	if err := xproto.DeletePropertyChecked(c.XUtil.Conn(), c.Root, atom).Check(); err != nil {
		return fmt.Errorf("delete _NET_VIRTUAL_ROOTS: %w", err)
	}
	return nil
}

// DesktopNames returns the raw bytes of _NET_DESKTOP_NAMES. ok is false when
// the property is missing or is not an 8-bit string list.
func (c *Connection) DesktopNames() ([]byte, bool, error) {
	reply, err := xprop.GetProperty(c.XUtil, c.Root, "_NET_DESKTOP_NAMES")
	if err != nil {
		// xprop reports a missing property as an error too.
		return nil, false, nil
	}
	if reply.Format != 8 {
		return nil, false, nil
	}
	return reply.Value, true, nil
}

// SetDesktopNames replaces _NET_DESKTOP_NAMES with raw, a packed list of
// NUL-terminated UTF-8 strings.
func (c *Connection) SetDesktopNames(raw []byte) error {
	if err := xprop.ChangeProp(c.XUtil, c.Root, 8, "_NET_DESKTOP_NAMES", "UTF8_STRING", raw); err != nil {
		return fmt.Errorf("set _NET_DESKTOP_NAMES: %w", err)
	}
	return nil
}

// WindowDesktop reads _NET_WM_DESKTOP from a client window. ok is false
// when the window has no such property.
func (c *Connection) WindowDesktop(win xproto.Window) (uint32, bool, error) {
	reply, err := xprop.GetProperty(c.XUtil, win, "_NET_WM_DESKTOP")
	if err != nil {
		return 0, false, nil
	}
	desk, err := xprop.PropValNum(reply, nil)
	if err != nil {
		return 0, false, fmt.Errorf("decode _NET_WM_DESKTOP on %#x: %w", win, err)
	}
	return uint32(desk), true, nil
}

// SetWindowDesktop writes _NET_WM_DESKTOP on a client window.
func (c *Connection) SetWindowDesktop(win xproto.Window, desk uint32) error {
	if err := ewmh.WmDesktopSet(c.XUtil, win, uint(desk)); err != nil {
		return fmt.Errorf("set _NET_WM_DESKTOP on %#x: %w", win, err)
	}
	return nil
}
