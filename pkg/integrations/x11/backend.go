// Package x11 implements the focus backend for X11 sessions using the X
// protocol directly.
package x11

import (
	"sync"

	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/common"
	"focuswatch/pkg/integrations/process"
)

// Backend implements focus.Backend for X11. The X connection is opened on
// first use and reopened after any protocol error.
type Backend struct {
	mu     sync.Mutex
	dial   func() (windowSource, error)
	source windowSource
	procfs process.FS
	log    zerolog.Logger
}

// NewBackend creates an X11 backend. No connection is made until Query.
func NewBackend(log zerolog.Logger) *Backend {
	return &Backend{
		dial:   dial,
		procfs: process.Default,
		log:    log.With().Str("component", "x11_backend").Logger(),
	}
}

// Available reports whether an X display is configured in the environment
// read by getenv.
func Available(getenv func(string) string) bool {
	return getenv("DISPLAY") != ""
}

// Capabilities reports application, window and browser tab detection.
func (b *Backend) Capabilities() focus.Capabilities {
	return common.DesktopCapabilities
}

// Query resolves the focused window.
func (b *Backend) Query() (snap focus.Snapshot) {
	defer focus.Recover(&snap, focus.SourcePolling)

	b.mu.Lock()
	defer b.mu.Unlock()

	props, found := b.activeWindow()
	if !found {
		return common.Window{}.Snapshot(focus.SourcePolling)
	}
	return b.resolve(props).Snapshot(focus.SourcePolling)
}

// Close releases the X connection.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.source != nil {
		b.source.close()
		b.source = nil
	}
	return nil
}

func (b *Backend) activeWindow() (windowProps, bool) {
	if b.source == nil {
		source, err := b.dial()
		if err != nil {
			b.log.Debug().Err(err).Msg("X server unavailable")
			return windowProps{}, false
		}
		b.source = source
	}

	props, found, err := b.source.activeWindow()
	if err != nil {
		b.log.Debug().Err(err).Msg("Dropping X connection")
		b.source.close()
		b.source = nil
		return windowProps{}, false
	}
	return props, found
}

// resolve names the application by WM_CLASS, falling back to the instance
// name and then the process name.
func (b *Backend) resolve(props windowProps) common.Window {
	w := common.Window{
		Found:   true,
		Title:   props.title,
		AppName: props.class,
	}
	if w.AppName == "" {
		w.AppName = props.instance
	}

	if props.pid > 0 {
		info, err := b.procfs.Lookup(int(props.pid))
		if err != nil {
			b.log.Debug().Err(err).Uint32("pid", props.pid).Msg("Process lookup failed")
			return w
		}
		if w.AppName == "" {
			w.AppName = info.Name
		}
		w.ProcessPath = info.ExePath
	}

	return w
}
