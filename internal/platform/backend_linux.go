//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/groupwm/internal/x11"
)

// Border pixels per highlight.
const (
	borderNone    = 0x666666
	borderGroup   = 0x0000ff
	borderUngroup = 0xff0000
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend
// interface. It also provides the property store, stacking and window
// operations the group engine runs against.
type LinuxBackend struct {
	conn      *x11.Connection
	stack     *x11.StackingOrder
	onDestroy func(WindowID)
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, stack: x11.NewStackingOrder(conn)}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection. An empty display means $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// QuitEventLoop makes EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	b.conn.Quit()
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// OnClientsChanged registers fn to run whenever the managed client list
// changes. fn runs on the event loop goroutine.
func (b *LinuxBackend) OnClientsChanged(fn func()) error {
	return b.conn.OnClientListChange(fn)
}

// OnClientDestroyed sets the function called, from the event loop, when a
// window passed to WatchDestroy is destroyed. Set it before the first watch.
func (b *LinuxBackend) OnClientDestroyed(fn func(WindowID)) {
	b.onDestroy = fn
}

// WatchDestroy subscribes to the destruction of win.
func (b *LinuxBackend) WatchDestroy(win WindowID) error {
	return b.conn.WatchDestroy(xproto.Window(win), func(w xproto.Window) {
		b.stack.Forget(w)
		if b.onDestroy != nil {
			b.onDestroy(WindowID(w))
		}
	})
}

// Clients returns the normal managed windows, sorted by id.
func (b *LinuxBackend) Clients() ([]Window, error) {
	wins, err := b.conn.ClientList()
	if err != nil {
		return nil, err
	}

	clients := make([]Window, 0, len(wins))
	for _, win := range wins {
		if !b.conn.IsNormalWindow(win) {
			continue
		}
		instance, class := b.conn.WindowClass(win)
		clients = append(clients, Window{
			ID:       WindowID(win),
			Class:    class,
			Instance: instance,
			Title:    b.conn.WindowTitle(win),
		})
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID < clients[j].ID
	})
	return clients, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

func (b *LinuxBackend) SetNumberOfDesktops(n int) error   { return b.conn.SetNumberOfDesktops(n) }
func (b *LinuxBackend) SetCurrentDesktop(index int) error { return b.conn.SetCurrentDesktop(index) }
func (b *LinuxBackend) SetDesktopViewport(x, y int) error { return b.conn.SetDesktopViewport(x, y) }
func (b *LinuxBackend) SetShowingDesktop(s bool) error    { return b.conn.SetShowingDesktop(s) }
func (b *LinuxBackend) ClearVirtualRoots() error          { return b.conn.ClearVirtualRoots() }

func (b *LinuxBackend) DesktopNames() ([]byte, bool, error) { return b.conn.DesktopNames() }
func (b *LinuxBackend) SetDesktopNames(raw []byte) error    { return b.conn.SetDesktopNames(raw) }

// WindowDesktop decodes _NET_WM_DESKTOP into a Desktop.
func (b *LinuxBackend) WindowDesktop(win WindowID) (Desktop, bool, error) {
	raw, ok, err := b.conn.WindowDesktop(xproto.Window(win))
	if err != nil || !ok {
		return Desktop{}, ok, err
	}
	return decodeDesktop(raw), true, nil
}

// SetWindowDesktop encodes d into _NET_WM_DESKTOP.
func (b *LinuxBackend) SetWindowDesktop(win WindowID, d Desktop) error {
	return b.conn.SetWindowDesktop(xproto.Window(win), encodeDesktop(d))
}

func decodeDesktop(raw uint32) Desktop {
	if raw == x11.NoDesktop {
		return Unassigned()
	}
	return Assigned(int(raw))
}

func encodeDesktop(d Desktop) uint32 {
	idx, ok := d.Index()
	if !ok || idx < 0 {
		return x11.NoDesktop
	}
	return uint32(idx)
}

func (b *LinuxBackend) RefreshStackingOrder() error { return b.stack.Refresh() }

func (b *LinuxBackend) StackIndex(win WindowID) int { return b.stack.Index(xproto.Window(win)) }

// Restack applies a top-to-bottom window order.
func (b *LinuxBackend) Restack(wins []WindowID) error {
	xwins := make([]xproto.Window, len(wins))
	for i, w := range wins {
		xwins[i] = xproto.Window(w)
	}
	return b.stack.Restack(xwins)
}

func (b *LinuxBackend) Hide(win WindowID) error   { return b.conn.HideWindow(xproto.Window(win)) }
func (b *LinuxBackend) Unhide(win WindowID) error { return b.conn.ShowWindow(xproto.Window(win)) }

// DrawBorder paints the border color that matches h.
func (b *LinuxBackend) DrawBorder(win WindowID, h Highlight) error {
	return b.conn.SetBorderColor(xproto.Window(win), borderPixel(h))
}

func borderPixel(h Highlight) uint32 {
	switch h {
	case HighlightGroup:
		return borderGroup
	case HighlightUngroup:
		return borderUngroup
	default:
		return borderNone
	}
}
