package detector

import (
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"focuswatch/pkg/integrations/hybrid"
	"focuswatch/pkg/integrations/macos"
	"focuswatch/pkg/integrations/unsupported"
	"focuswatch/pkg/integrations/x11"
)

func envFunc(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestNew(t *testing.T) {
	backend := New(zerolog.Nop())
	if backend == nil {
		t.Fatal("New() returned nil backend")
	}

	caps := backend.Capabilities()
	t.Logf("Capabilities on %s: %+v", runtime.GOOS, caps)

	snap := backend.Query()
	if !caps.Permits(snap) {
		t.Errorf("Query() populated fields outside capabilities: %+v", snap)
	}
}

func TestSelect(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		name  string
		goos  string
		env   map[string]string
		check func(any) bool
	}{
		{
			name:  "macOS",
			goos:  "darwin",
			check: func(b any) bool { _, ok := b.(*macos.Backend); return ok },
		},
		{
			name:  "Linux X11",
			goos:  "linux",
			env:   map[string]string{"DISPLAY": ":0"},
			check: func(b any) bool { _, ok := b.(*x11.Backend); return ok },
		},
		{
			name:  "Linux Wayland",
			goos:  "linux",
			env:   map[string]string{"WAYLAND_DISPLAY": "wayland-0", "SWAYSOCK": "/tmp/sway.sock"},
			check: func(b any) bool { _, ok := b.(*hybrid.Backend); return ok },
		},
		{
			name:  "Linux headless",
			goos:  "linux",
			check: func(b any) bool { _, ok := b.(*unsupported.Backend); return ok },
		},
		{
			name:  "Unknown platform",
			goos:  "plan9",
			check: func(b any) bool { _, ok := b.(*unsupported.Backend); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := Select(tt.goos, envFunc(tt.env), log)
			if !tt.check(backend) {
				t.Errorf("Select(%s) = %T", tt.goos, backend)
			}
		})
	}
}

func TestSelectWindowsOffPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("native backend available")
	}

	backend := Select("windows", envFunc(nil), zerolog.Nop())
	if _, ok := backend.(*unsupported.Backend); !ok {
		t.Errorf("Select(windows) off platform = %T, want unsupported", backend)
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		expected       string
	}{
		{"Wayland session", "wayland", "wayland-0", "", "wayland"},
		{"X11 session", "x11", "", ":0", "x11"},
		{"Unknown session", "", "", "", "unknown"},
		{"Wayland display set", "", "wayland-1", "", "wayland"},
		{"X11 display set", "", "", ":1", "x11"},
		{"XWayland prefers wayland", "wayland", "wayland-0", ":0", "wayland"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if result := DetectDisplayServer(); result != tt.expected {
				t.Errorf("DetectDisplayServer() = %s, want %s", result, tt.expected)
			}
		})
	}
}
