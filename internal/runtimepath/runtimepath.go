package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the IPC socket location when set.
const SocketEnv = "GROUPWM_SOCKET"

// Dir returns the runtime directory used for the IPC socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/groupwm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/groupwm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path for the display named by
// $DISPLAY, so one daemon per X display can run side by side.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	return SocketPathFor(os.Getenv("DISPLAY"))
}

// SocketPathFor returns the socket path for an explicit display name.
func SocketPathFor(display string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, socketName(display)), nil
}

func socketName(display string) string {
	// ":0.0" and ":0" are the same server.
	host, num, ok := strings.Cut(display, ":")
	if !ok {
		return "groupwm.sock"
	}
	num, _, _ = strings.Cut(num, ".")
	name := num
	if host != "" {
		name = host + "-" + num
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == ':' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "groupwm.sock"
	}
	return "groupwm-" + name + ".sock"
}
