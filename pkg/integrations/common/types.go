// Package common holds the pieces shared by the desktop focus backends.
package common

import (
	"focuswatch/pkg/browsertab"
	"focuswatch/pkg/focus"
)

// DesktopCapabilities is the capability set of backends that can see the
// focused window and its owning process.
var DesktopCapabilities = focus.Capabilities{
	FocusedApplication: true,
	FocusedWindow:      true,
	FocusedBrowserTab:  true,
	RealtimeEvents:     true,
	PrivateBrowsing:    false,
}

// Window is what a backend managed to resolve about the focused window
// during one query. Empty strings mean "could not resolve".
type Window struct {
	// Found is true when the platform reported a focused window at all.
	Found bool

	// Title is the window title.
	Title string

	// AppName is the application display name (WM_CLASS, app_id, exe stem).
	AppName string

	// BundleID is the platform application identifier, if any.
	BundleID string

	// ProcessPath is the executable path of the owning process.
	ProcessPath string
}

// Snapshot converts w into a focus snapshot. Unresolved parts stay absent,
// the browser-tab heuristic runs when both title and application resolved.
func (w Window) Snapshot(source focus.EventSource) focus.Snapshot {
	snap := focus.NewSnapshot(source)
	if !w.Found {
		return snap
	}

	if w.Title != "" {
		snap.Window = &focus.FocusedWindow{Title: w.Title}
	}
	if w.AppName != "" {
		snap.Application = &focus.FocusedApplication{
			DisplayName: w.AppName,
			BundleID:    focus.OptionalString(w.BundleID),
			ProcessPath: focus.OptionalString(w.ProcessPath),
		}
	}
	if snap.Window != nil && snap.Application != nil {
		snap.BrowserTab = browsertab.Infer(w.Title, w.AppName)
	}

	snap.ConfidenceLevel = focus.ConfidenceFor(snap.Application != nil, snap.Window != nil)
	return snap
}
