// Package focus defines the platform independent focus snapshot model shared
// by every backend, the watcher and the host application.
package focus

import (
	"time"
)

// EventSource names the mechanism that produced a snapshot.
type EventSource string

const (
	SourcePolling       EventSource = "polling"
	SourceAccessibility EventSource = "accessibility"
	SourceUIAutomation  EventSource = "uia"
	SourceUnknown       EventSource = "unknown"
)

// Confidence is a qualitative reliability indicator for a snapshot.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FocusedApplication describes the application owning input focus.
type FocusedApplication struct {
	DisplayName string  `json:"display_name"`
	BundleID    *string `json:"bundle_id"`
	ProcessPath *string `json:"process_path"`
}

// FocusedWindow describes the focused top-level window.
type FocusedWindow struct {
	Title string `json:"title"`
}

// FocusedBrowserTab is a best-effort guess at the active browser tab.
// URL is never resolved from a title and stays nil.
type FocusedBrowserTab struct {
	Title   *string `json:"title"`
	URL     *string `json:"url"`
	Browser *string `json:"browser"`
}

// Snapshot is one observation of the focus context. Snapshots are values:
// backends create a fresh one per query and nobody mutates it afterwards.
type Snapshot struct {
	Application     *FocusedApplication `json:"focused_application"`
	Window          *FocusedWindow      `json:"focused_window"`
	BrowserTab      *FocusedBrowserTab  `json:"focused_browser_tab"`
	EventSource     EventSource         `json:"event_source"`
	ConfidenceLevel Confidence          `json:"confidence_level"`
	PrivacyFiltered bool                `json:"privacy_filtered"`
	CapturedAt      string              `json:"captured_at"`
}

// TimestampLayout is the layout of Snapshot.CapturedAt.
const TimestampLayout = time.RFC3339Nano

var now = time.Now

// NewSnapshot returns a snapshot with every field absent, low confidence and
// the capture time set to the current UTC time.
func NewSnapshot(source EventSource) Snapshot {
	return Snapshot{
		EventSource:     source,
		ConfidenceLevel: ConfidenceLow,
		PrivacyFiltered: true,
		CapturedAt:      now().UTC().Format(TimestampLayout),
	}
}

// CapturedTime parses CapturedAt.
func (s Snapshot) CapturedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, s.CapturedAt)
}

// ApplicationName returns the display name of the focused application or ""
// when no application was resolved.
func (s Snapshot) ApplicationName() string {
	if s.Application == nil {
		return ""
	}
	return s.Application.DisplayName
}

// WindowTitle returns the focused window title or "".
func (s Snapshot) WindowTitle() string {
	if s.Window == nil {
		return ""
	}
	return s.Window.Title
}

// ConfidenceFor derives the confidence level from what a backend resolved.
func ConfidenceFor(hasApplication, hasWindow bool) Confidence {
	switch {
	case !hasApplication:
		return ConfidenceLow
	case hasWindow:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}

// OptionalString returns nil for an empty string and a pointer to s otherwise.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
