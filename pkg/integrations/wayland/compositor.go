package wayland

import (
	"os/exec"
	"strings"
)

// Compositor identifies the running Wayland compositor.
type Compositor string

const (
	CompositorSway     Compositor = "sway"
	CompositorHyprland Compositor = "hyprland"
	CompositorGnome    Compositor = "gnome"
	CompositorUnknown  Compositor = "unknown"
)

// compositorProcesses is checked in order when the environment is silent.
var compositorProcesses = []struct {
	process    string
	compositor Compositor
}{
	{"sway", CompositorSway},
	{"Hyprland", CompositorHyprland},
	{"gnome-shell", CompositorGnome},
}

// Available reports whether the session is a Wayland session.
func Available(getenv func(string) string) bool {
	return getenv("WAYLAND_DISPLAY") != "" || strings.EqualFold(getenv("XDG_SESSION_TYPE"), "wayland")
}

// DetectCompositor identifies the compositor from the session environment,
// falling back to a process scan through running.
func DetectCompositor(getenv func(string) string, running func(process string) bool) Compositor {
	switch {
	case getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
		return CompositorHyprland
	case getenv("SWAYSOCK") != "":
		return CompositorSway
	}

	desktop := strings.ToLower(getenv("XDG_CURRENT_DESKTOP"))
	switch {
	case strings.Contains(desktop, "hyprland"):
		return CompositorHyprland
	case strings.Contains(desktop, "sway"):
		return CompositorSway
	case strings.Contains(desktop, "gnome"), strings.Contains(desktop, "ubuntu"):
		return CompositorGnome
	}

	if running != nil {
		for _, c := range compositorProcesses {
			if running(c.process) {
				return c.compositor
			}
		}
	}

	return CompositorUnknown
}

func processRunning(process string) bool {
	return exec.Command("pgrep", "-x", process).Run() == nil
}
