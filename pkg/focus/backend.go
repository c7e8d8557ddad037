package focus

// Capabilities declares which focus details a backend can populate.
type Capabilities struct {
	FocusedApplication bool `json:"supports_focused_application_detection"`
	FocusedWindow      bool `json:"supports_focused_window_detection"`
	FocusedBrowserTab  bool `json:"supports_focused_browser_tab_detection"`
	RealtimeEvents     bool `json:"supports_realtime_event_streaming"`
	PrivateBrowsing    bool `json:"supports_private_browsing_detection"`
}

// Permits reports whether s only populates fields the capabilities allow.
func (c Capabilities) Permits(s Snapshot) bool {
	if s.Application != nil && !c.FocusedApplication {
		return false
	}
	if s.Window != nil && !c.FocusedWindow {
		return false
	}
	if s.BrowserTab != nil && !c.FocusedBrowserTab {
		return false
	}
	return true
}

// Backend is a platform specific source of focus snapshots.
type Backend interface {
	// Query returns the current focus context. It never fails: anything the
	// platform cannot resolve is left absent.
	Query() Snapshot

	// Capabilities returns the static capability descriptor. No I/O.
	Capabilities() Capabilities
}

// Recover is deferred by backends around their platform calls so a panic in
// an OS binding degrades to an empty snapshot:
//
//	func (b *Backend) Query() (snap focus.Snapshot) {
//		defer focus.Recover(&snap, focus.SourcePolling)
//		...
//	}
func Recover(snap *Snapshot, source EventSource) {
	if r := recover(); r != nil {
		*snap = NewSnapshot(source)
	}
}

// SafeQuery queries b and converts a panic into an empty snapshot with an
// unknown source.
func SafeQuery(b Backend) (snap Snapshot) {
	defer Recover(&snap, SourceUnknown)
	return b.Query()
}
