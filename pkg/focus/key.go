package focus

// Key is the comparison identity of a snapshot. It is a comparable struct so
// two keys are equal exactly when every observed field is equal; presence is
// tracked separately from the value so an absent field never equals an empty
// one. Keys are for equality only, never for display.
type Key struct {
	HasApplication bool
	Application    string

	HasWindow bool
	Window    string

	HasTabTitle bool
	TabTitle    string

	HasTabURL bool
	TabURL    string

	Confidence Confidence
}

// Key computes the comparison key of s.
func (s Snapshot) Key() Key {
	k := Key{Confidence: s.ConfidenceLevel}

	if s.Application != nil {
		k.HasApplication = true
		k.Application = s.Application.DisplayName
	}
	if s.Window != nil {
		k.HasWindow = true
		k.Window = s.Window.Title
	}
	if s.BrowserTab != nil {
		if s.BrowserTab.Title != nil {
			k.HasTabTitle = true
			k.TabTitle = *s.BrowserTab.Title
		}
		if s.BrowserTab.URL != nil {
			k.HasTabURL = true
			k.TabURL = *s.BrowserTab.URL
		}
	}

	return k
}
