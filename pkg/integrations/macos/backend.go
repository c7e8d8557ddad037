// Package macos implements the focus backend for macOS. It resolves only the
// frontmost application; window and tab detail are not available without
// accessibility permissions.
package macos

import (
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
)

const unknownApplication = "Unknown"

// frontmostScript asks System Events for the frontmost process. Used only
// when lsappinfo is not available.
const frontmostScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set bundleID to ""
	try
		set bundleID to bundle identifier of frontApp
	end try
	return appName & linefeed & bundleID
end tell`

type runner func(name string, args ...string) ([]byte, error)

// Backend implements focus.Backend on top of Launch Services.
type Backend struct {
	run          runner
	hasLsappinfo bool
	hasOsascript bool
	log          zerolog.Logger
}

// NewBackend creates a macOS backend.
func NewBackend(log zerolog.Logger) *Backend {
	b := &Backend{
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
		log: log.With().Str("component", "macos_backend").Logger(),
	}
	b.hasLsappinfo = commandExists("lsappinfo")
	b.hasOsascript = commandExists("osascript")
	return b
}

func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Capabilities reports application detection only.
func (b *Backend) Capabilities() focus.Capabilities {
	return focus.Capabilities{
		FocusedApplication: true,
		FocusedWindow:      false,
		FocusedBrowserTab:  false,
		RealtimeEvents:     true,
		PrivateBrowsing:    false,
	}
}

// Query resolves the frontmost application. Confidence stays low because no
// window detail is available.
func (b *Backend) Query() (snap focus.Snapshot) {
	defer focus.Recover(&snap, focus.SourcePolling)

	snap = focus.NewSnapshot(focus.SourcePolling)
	snap.Application = b.frontmostApplication()
	snap.ConfidenceLevel = focus.ConfidenceLow
	return snap
}

func (b *Backend) frontmostApplication() *focus.FocusedApplication {
	if b.hasLsappinfo {
		if app, ok := b.queryLsappinfo(); ok {
			return app
		}
	}
	if b.hasOsascript {
		if app, ok := b.queryOsascript(); ok {
			return app
		}
	}
	return nil
}

func (b *Backend) queryLsappinfo() (*focus.FocusedApplication, bool) {
	asn, err := b.run("lsappinfo", "front")
	if err != nil {
		b.log.Debug().Err(err).Msg("lsappinfo front failed")
		return nil, false
	}

	id := strings.TrimSpace(string(asn))
	if id == "" || id == "[ NULL ]" {
		return nil, false
	}

	out, err := b.run("lsappinfo", "info", "-only", "name", "-only", "bundleid", id)
	if err != nil {
		b.log.Debug().Err(err).Str("asn", id).Msg("lsappinfo info failed")
		return nil, false
	}

	fields := parseLsappinfo(string(out))
	return newApplication(fields["LSDisplayName"], fields["CFBundleIdentifier"]), true
}

func (b *Backend) queryOsascript() (*focus.FocusedApplication, bool) {
	out, err := b.run("osascript", "-e", frontmostScript)
	if err != nil {
		b.log.Debug().Err(err).Msg("osascript frontmost query failed")
		return nil, false
	}

	name, bundleID := parseOsascript(string(out))
	return newApplication(name, bundleID), true
}

func newApplication(name, bundleID string) *focus.FocusedApplication {
	if name == "" {
		name = unknownApplication
	}
	return &focus.FocusedApplication{
		DisplayName: name,
		BundleID:    focus.OptionalString(bundleID),
	}
}

// parseLsappinfo parses `"Key"="Value"` lines as printed by lsappinfo info.
func parseLsappinfo(output string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"`)
		value = strings.TrimSpace(value)
		if value == "[ NULL ]" {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}

// parseOsascript splits the "name\nbundle" reply of frontmostScript.
func parseOsascript(output string) (name, bundleID string) {
	output = strings.TrimRight(output, "\r\n")
	name, bundleID, _ = strings.Cut(output, "\n")
	return strings.TrimSpace(name), strings.TrimSpace(bundleID)
}
