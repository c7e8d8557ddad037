package wayland

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/process"
)

func newTestBackend(t *testing.T, compositor Compositor, out string, runErr error) *Backend {
	t.Helper()
	return &Backend{
		compositor: compositor,
		run: func(name string, args ...string) ([]byte, error) {
			return []byte(out), runErr
		},
		eval: func(script string) (bool, string, error) {
			return true, out, runErr
		},
		procfs: process.FS{Root: t.TempDir()},
		log:    zerolog.Nop(),
	}
}

func TestQuerySway(t *testing.T) {
	b := newTestBackend(t, CompositorSway, swayTree, nil)

	s := b.Query()
	assert.Equal(t, "firefox", s.ApplicationName())
	assert.Equal(t, "Example Page - Mozilla Firefox", s.WindowTitle())
	require.NotNil(t, s.BrowserTab)
	assert.Equal(t, "Example Page", focus.Deref(s.BrowserTab.Title))
	assert.Equal(t, focus.ConfidenceHigh, s.ConfidenceLevel)
	assert.True(t, b.Capabilities().Permits(s))
}

func TestQueryHyprland(t *testing.T) {
	b := newTestBackend(t, CompositorHyprland, `{"class": "kitty", "title": "~/src", "pid": 1}`, nil)

	s := b.Query()
	assert.Equal(t, "kitty", s.ApplicationName())
	assert.Nil(t, s.BrowserTab)
}

func TestQueryGnome(t *testing.T) {
	b := newTestBackend(t, CompositorGnome, `{"wm_class":"Google-chrome","title":"Docs - Google Chrome","pid":0}`, nil)

	s := b.Query()
	assert.Equal(t, "Google-chrome", s.ApplicationName())
	require.NotNil(t, s.BrowserTab)
	assert.Equal(t, "Docs", focus.Deref(s.BrowserTab.Title))
}

func TestQueryGnomeRefused(t *testing.T) {
	b := newTestBackend(t, CompositorGnome, "", nil)
	b.eval = func(string) (bool, string, error) { return false, "", nil }

	s := b.Query()
	assert.Nil(t, s.Application)
	assert.Nil(t, s.Window)
}

func TestQueryCommandFailure(t *testing.T) {
	b := newTestBackend(t, CompositorSway, "", errors.New("swaymsg: not found"))

	s := b.Query()
	assert.Nil(t, s.Application)
	assert.Nil(t, s.Window)
	assert.Equal(t, focus.ConfidenceLow, s.ConfidenceLevel)
}

func TestQueryUnknownCompositor(t *testing.T) {
	b := newTestBackend(t, CompositorUnknown, "", nil)
	b.run = func(string, ...string) ([]byte, error) {
		t.Fatal("no command should run for an unknown compositor")
		return nil, nil
	}

	s := b.Query()
	assert.Nil(t, s.Application)
}

func TestQueryRecoversFromPanic(t *testing.T) {
	b := newTestBackend(t, CompositorHyprland, "", nil)
	b.run = func(string, ...string) ([]byte, error) { panic("boom") }

	s := b.Query()
	assert.Nil(t, s.Application)
	assert.Equal(t, focus.SourcePolling, s.EventSource)
}

func TestDetectCompositor(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		running string
		want    Compositor
	}{
		{"Hyprland signature", map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc"}, "", CompositorHyprland},
		{"Sway socket", map[string]string{"SWAYSOCK": "/run/user/1000/sway-ipc.sock"}, "", CompositorSway},
		{"GNOME desktop", map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}, "", CompositorGnome},
		{"Sway desktop", map[string]string{"XDG_CURRENT_DESKTOP": "sway"}, "", CompositorSway},
		{"Process fallback", map[string]string{}, "gnome-shell", CompositorGnome},
		{"Unknown", map[string]string{"XDG_CURRENT_DESKTOP": "river"}, "", CompositorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			running := func(p string) bool { return p == tt.running }
			assert.Equal(t, tt.want, DetectCompositor(getenv, running))
		})
	}
}

func TestAvailable(t *testing.T) {
	env := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	assert.True(t, Available(env(map[string]string{"WAYLAND_DISPLAY": "wayland-0"})))
	assert.True(t, Available(env(map[string]string{"XDG_SESSION_TYPE": "wayland"})))
	assert.False(t, Available(env(map[string]string{"XDG_SESSION_TYPE": "x11"})))
}
