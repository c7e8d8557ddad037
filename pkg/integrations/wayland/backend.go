// Package wayland implements the focus backend for Wayland compositors that
// expose the focused window over IPC.
package wayland

import (
	"os"
	"os/exec"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/common"
	"focuswatch/pkg/integrations/process"
)

// gnomeFocusScript evaluates to the focused window as an object, or null.
// Shell.Eval JSON-encodes the result.
const gnomeFocusScript = `(() => {
	const w = global.display.get_focus_window();
	if (!w) return null;
	return {wm_class: w.get_wm_class() || '', title: w.get_title() || '', pid: w.get_pid() || 0};
})()`

type runner func(name string, args ...string) ([]byte, error)

// shellEvaluator runs a script inside GNOME Shell. ok is false when the shell
// refused to evaluate it.
type shellEvaluator func(script string) (ok bool, result string, err error)

// Backend implements focus.Backend for sway, Hyprland and GNOME Shell.
type Backend struct {
	compositor Compositor
	run        runner
	eval       shellEvaluator
	procfs     process.FS
	log        zerolog.Logger
}

// NewBackend creates a Wayland backend for the detected compositor.
func NewBackend(log zerolog.Logger) *Backend {
	return &Backend{
		compositor: DetectCompositor(os.Getenv, processRunning),
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
		eval:   evalGnomeShell,
		procfs: process.Default,
		log:    log.With().Str("component", "wayland_backend").Logger(),
	}
}

// Compositor returns the compositor the backend talks to.
func (b *Backend) Compositor() Compositor {
	return b.compositor
}

// Capabilities reports application, window and browser tab detection.
func (b *Backend) Capabilities() focus.Capabilities {
	return common.DesktopCapabilities
}

// Query asks the compositor for the focused window.
func (b *Backend) Query() (snap focus.Snapshot) {
	defer focus.Recover(&snap, focus.SourcePolling)

	info, found, err := b.focusedWindow()
	if err != nil {
		b.log.Debug().Err(err).Str("compositor", string(b.compositor)).Msg("Focus query failed")
		return common.Window{}.Snapshot(focus.SourcePolling)
	}
	if !found {
		return common.Window{}.Snapshot(focus.SourcePolling)
	}
	return b.resolve(info).Snapshot(focus.SourcePolling)
}

func (b *Backend) focusedWindow() (windowInfo, bool, error) {
	switch b.compositor {
	case CompositorHyprland:
		out, err := b.run("hyprctl", "activewindow", "-j")
		if err != nil {
			return windowInfo{}, false, errors.Wrap(err, "failed to execute hyprctl")
		}
		return parseHyprlandWindow(out)

	case CompositorSway:
		out, err := b.run("swaymsg", "-t", "get_tree")
		if err != nil {
			return windowInfo{}, false, errors.Wrap(err, "failed to execute swaymsg")
		}
		return parseSwayTree(out)

	case CompositorGnome:
		ok, result, err := b.eval(gnomeFocusScript)
		if err != nil {
			return windowInfo{}, false, err
		}
		if !ok {
			return windowInfo{}, false, errors.New("Shell.Eval refused the script")
		}
		return parseGnomeResult(result)

	default:
		return windowInfo{}, false, nil
	}
}

func (b *Backend) resolve(info windowInfo) common.Window {
	w := common.Window{
		Found:   true,
		Title:   info.title,
		AppName: info.appID,
	}

	if info.pid > 0 {
		proc, err := b.procfs.Lookup(info.pid)
		if err != nil {
			b.log.Debug().Err(err).Int("pid", info.pid).Msg("Process lookup failed")
			return w
		}
		if w.AppName == "" {
			w.AppName = proc.Name
		}
		w.ProcessPath = proc.ExePath
	}

	return w
}

func evalGnomeShell(script string) (bool, string, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false, "", errors.Wrap(err, "failed to connect to session bus")
	}

	var (
		ok     bool
		result string
	)
	call := conn.Object("org.gnome.Shell", "/org/gnome/Shell").Call("org.gnome.Shell.Eval", 0, script)
	if err := call.Store(&ok, &result); err != nil {
		return false, "", errors.Wrap(err, "org.gnome.Shell.Eval failed")
	}
	return ok, result, nil
}
