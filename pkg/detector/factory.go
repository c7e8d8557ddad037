// Package detector picks the focus backend for the running platform.
package detector

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/hybrid"
	"focuswatch/pkg/integrations/macos"
	"focuswatch/pkg/integrations/unsupported"
	"focuswatch/pkg/integrations/wayland"
	"focuswatch/pkg/integrations/x11"
)

// New returns the backend for the current platform. Platforms without an
// implementation get the unsupported backend.
func New(log zerolog.Logger) focus.Backend {
	return Select(runtime.GOOS, os.Getenv, log)
}

// Select returns the backend for goos given the session environment.
func Select(goos string, getenv func(string) string, log zerolog.Logger) focus.Backend {
	switch goos {
	case "windows":
		if b := nativeBackend(log); b != nil {
			return b
		}
	case "darwin":
		return macos.NewBackend(log)
	case "linux", "freebsd", "openbsd", "netbsd":
		switch displayServer(getenv) {
		case "wayland":
			var xwayland focus.Backend
			if x11.Available(getenv) {
				xwayland = x11.NewBackend(log)
			}
			return hybrid.NewBackend(log, wayland.NewBackend(log), xwayland)
		case "x11":
			return x11.NewBackend(log)
		}
	}

	log.Warn().Str("goos", goos).Msg("No focus backend for this platform")
	return unsupported.NewBackend()
}

// DetectDisplayServer reports "wayland", "x11" or "unknown" for the current
// session.
func DetectDisplayServer() string {
	return displayServer(os.Getenv)
}

func displayServer(getenv func(string) string) string {
	if wayland.Available(getenv) {
		return "wayland"
	}
	if getenv("XDG_SESSION_TYPE") == "x11" || x11.Available(getenv) {
		return "x11"
	}
	return "unknown"
}
