package hotkeys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/groupwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

type task struct {
	path string
	run  func(context.Context) error
}

// Handler manages global keyboard shortcuts. Callbacks fire on the X event
// loop and are handed to a single worker so key presses are processed in
// the order they arrive without stalling event dispatch.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
	queue  chan task
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("hotkeys require an X11 backend")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		logger: logger,
		queue:  make(chan task, 32),
	}, nil
}

// Run executes triggered bindings until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-h.queue:
			if err := t.run(ctx); err != nil {
				h.logger.Warn("hotkey action failed", "binding", t.path, "error", err)
			}
		}
	}
}

// Bind replaces every registered binding with the given set. A key that
// fails to grab is logged and skipped; the first such error is returned.
func (h *Handler) Bind(bindings []Binding) error {
	keybind.Detach(h.xu, h.root)

	var firstErr error
	for _, b := range bindings {
		if err := h.bind(b); err != nil {
			h.logger.Warn("failed to register hotkey", "binding", b.Path, "key", b.Key, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("register %s (%s): %w", b.Path, b.Key, err)
			}
			continue
		}
		h.logger.Debug("hotkey registered", "binding", b.Path, "key", b.Key)
	}
	return firstErr
}

func (h *Handler) bind(b Binding) error {
	if err := h.RegisterFunc(b.Key, h.enqueue(b.Path, b.Press)); err != nil {
		return err
	}
	if b.Release != nil {
		return h.RegisterRelease(b.Key, h.enqueue(b.Path, b.Release))
	}
	return nil
}

func (h *Handler) enqueue(path string, run func(context.Context) error) func() {
	return func() {
		select {
		case h.queue <- task{path: path, run: run}:
		default:
			h.logger.Warn("hotkey queue full, dropping press", "binding", path)
		}
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// RegisterRelease registers a callback for the release of an already
// grabbed key.
func (h *Handler) RegisterRelease(keySequence string, callback func()) error {
	return keybind.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, false)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = maskSubsets(base)
}

// maskSubsets returns every OR-combination of the given masks, including 0.
func maskSubsets(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
