// Package browsertab infers the probable active browser tab from a window
// title. It is a title heuristic only; URLs are never resolved.
package browsertab

import (
	"strings"

	"focuswatch/pkg/focus"
)

// titleSeparator separates the page title from the browser name in the
// window titles of common desktop browsers.
const titleSeparator = " - "

var knownBrowsers = []string{
	"chrome",
	"chromium",
	"msedge",
	"brave",
	"opera",
	"vivaldi",
	"firefox",
	"edge",
	"google chrome",
	"microsoft edge",
	"brave browser",
}

// IsBrowser reports whether applicationName looks like a known browser.
func IsBrowser(applicationName string) bool {
	lower := strings.ToLower(applicationName)
	for _, name := range knownBrowsers {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

// Infer returns the probable browser tab for windowTitle, or nil when
// applicationName is not a known browser.
func Infer(windowTitle, applicationName string) *focus.FocusedBrowserTab {
	if !IsBrowser(applicationName) {
		return nil
	}

	title := windowTitle
	if idx := strings.LastIndex(windowTitle, titleSeparator); idx >= 0 {
		title = windowTitle[:idx]
	}

	browser := applicationName
	return &focus.FocusedBrowserTab{
		Title:   focus.OptionalString(title),
		URL:     nil,
		Browser: &browser,
	}
}
