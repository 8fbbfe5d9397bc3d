package group

import (
	"log/slog"

	"github.com/1broseidon/groupwm/internal/platform"
)

// PropertyStore is the persisted key/value state attached to the root window
// and to each client window.
type PropertyStore interface {
	SetNumberOfDesktops(n int) error
	SetCurrentDesktop(index int) error
	SetDesktopViewport(x, y int) error
	SetShowingDesktop(showing bool) error
	ClearVirtualRoots() error

	// DesktopNames returns the packed NUL-terminated name list. ok is false
	// when the property is absent or not an 8-bit string.
	DesktopNames() (raw []byte, ok bool, err error)
	SetDesktopNames(raw []byte) error

	// WindowDesktop returns the persisted desktop of a window. ok is false
	// when the window carries no such property.
	WindowDesktop(win platform.WindowID) (d platform.Desktop, ok bool, err error)
	SetWindowDesktop(win platform.WindowID, d platform.Desktop) error
}

// Stacker exposes the window system's stacking order.
type Stacker interface {
	// RefreshStackingOrder recomputes the per-window stacking indices.
	RefreshStackingOrder() error
	// StackIndex returns the last computed index of win, bottom-to-top.
	StackIndex(win platform.WindowID) int
	// Restack applies the given top-to-bottom order.
	Restack(topToBottom []platform.WindowID) error
}

// WindowOps changes how a single client window is displayed.
type WindowOps interface {
	Hide(win platform.WindowID) error
	Unhide(win platform.WindowID) error
	DrawBorder(win platform.WindowID, h platform.Highlight) error
}

// Picker presents labels to the user and returns the chosen index.
type Picker interface {
	Pick(prompt string, labels []string) (int, bool, error)
}

// Deps bundles the collaborators a Registry talks to.
type Deps struct {
	Props   PropertyStore
	Stack   Stacker
	Windows WindowOps
	Logger  *slog.Logger

	Rules  []Rule
	Sticky bool
}
