package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// restackSource marks _NET_RESTACK_WINDOW requests as coming from a pager,
// which window managers honor without focus-stealing checks.
const restackSource = 2

// StackingOrder caches the position of every managed client in the window
// manager's _NET_CLIENT_LIST_STACKING. Index 0 is the bottom-most client.
type StackingOrder struct {
	conn *Connection

	mu    sync.Mutex
	index map[xproto.Window]int
}

// NewStackingOrder returns an empty cache; call Refresh before reading it.
func NewStackingOrder(conn *Connection) *StackingOrder {
	return &StackingOrder{conn: conn, index: make(map[xproto.Window]int)}
}

// Refresh rebuilds the cache from _NET_CLIENT_LIST_STACKING.
func (s *StackingOrder) Refresh() error {
	wins, err := ewmh.ClientListStackingGet(s.conn.XUtil)
	if err != nil {
		return fmt.Errorf("get _NET_CLIENT_LIST_STACKING: %w", err)
	}
	s.mu.Lock()
	s.index = stackIndices(s.index, wins)
	s.mu.Unlock()
	return nil
}

// stackIndices numbers bottomToTop from 0. Windows of prev that are no longer
// listed keep their last index: hidden clients are withdrawn from the list
// but are restacked by that index when shown again.
func stackIndices(prev map[xproto.Window]int, bottomToTop []xproto.Window) map[xproto.Window]int {
	index := make(map[xproto.Window]int, len(bottomToTop))
	for i, win := range bottomToTop {
		index[win] = i
	}
	for win, i := range prev {
		if _, ok := index[win]; !ok {
			index[win] = i
		}
	}
	return index
}

// Index returns the cached stacking position of win, or 0 when the window
// was never listed.
func (s *StackingOrder) Index(win xproto.Window) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[win]
}

// Forget drops a destroyed window from the cache.
func (s *StackingOrder) Forget(win xproto.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.index, win)
}

// Restack asks the window manager to place each window directly below its
// predecessor. wins is ordered top-to-bottom; the first window keeps its
// position. Client windows are rarely siblings under a reparenting window
// manager, so the request goes through _NET_RESTACK_WINDOW.
func (s *StackingOrder) Restack(wins []xproto.Window) error {
	for i := 1; i < len(wins); i++ {
		err := ewmh.RestackWindowExtra(s.conn.XUtil, wins[i], xproto.StackModeBelow, wins[i-1], restackSource)
		if err != nil {
			return fmt.Errorf("restack %#x below %#x: %w", wins[i], wins[i-1], err)
		}
	}
	return nil
}
