package browsertab

import (
	"testing"

	"focuswatch/pkg/focus"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name        string
		windowTitle string
		appName     string
		wantTab     bool
		wantTitle   string
	}{
		{
			name:        "Chrome page",
			windowTitle: "Example Page - Google Chrome",
			appName:     "chrome",
			wantTab:     true,
			wantTitle:   "Example Page",
		},
		{
			name:        "Not a browser",
			windowTitle: "Notepad.exe",
			appName:     "Notepad",
			wantTab:     false,
		},
		{
			name:        "No separator",
			windowTitle: "Chrome",
			appName:     "chrome",
			wantTab:     true,
			wantTitle:   "Chrome",
		},
		{
			name:        "Last separator wins",
			windowTitle: "Go - The Go Programming Language - Mozilla Firefox",
			appName:     "Firefox",
			wantTab:     true,
			wantTitle:   "Go - The Go Programming Language",
		},
		{
			name:        "Display name match",
			windowTitle: "Inbox - Microsoft Edge",
			appName:     "Microsoft Edge",
			wantTab:     true,
			wantTitle:   "Inbox",
		},
		{
			name:        "Empty title",
			windowTitle: " - Brave",
			appName:     "brave",
			wantTab:     true,
			wantTitle:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := Infer(tt.windowTitle, tt.appName)
			if !tt.wantTab {
				if tab != nil {
					t.Errorf("Infer(%q, %q) = %+v, want nil", tt.windowTitle, tt.appName, tab)
				}
				return
			}
			if tab == nil {
				t.Fatalf("Infer(%q, %q) = nil, want tab", tt.windowTitle, tt.appName)
			}

			if tt.wantTitle == "" {
				if tab.Title != nil {
					t.Errorf("Title = %q, want nil", *tab.Title)
				}
			} else if focus.Deref(tab.Title) != tt.wantTitle {
				t.Errorf("Title = %q, want %q", focus.Deref(tab.Title), tt.wantTitle)
			}

			if tab.URL != nil {
				t.Errorf("URL = %q, want nil", *tab.URL)
			}
			if focus.Deref(tab.Browser) != tt.appName {
				t.Errorf("Browser = %q, want %q", focus.Deref(tab.Browser), tt.appName)
			}
		})
	}
}

func TestIsBrowser(t *testing.T) {
	tests := []struct {
		app  string
		want bool
	}{
		{"chrome", true},
		{"Google Chrome", true},
		{"msedge", true},
		{"firefox", true},
		{"Chromium", true},
		{"code", false},
		{"Notepad", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsBrowser(tt.app); got != tt.want {
			t.Errorf("IsBrowser(%q) = %v, want %v", tt.app, got, tt.want)
		}
	}
}

func TestInferDeterministic(t *testing.T) {
	a := Infer("Docs - Firefox", "firefox")
	b := Infer("Docs - Firefox", "firefox")
	if focus.Deref(a.Title) != focus.Deref(b.Title) || focus.Deref(a.Browser) != focus.Deref(b.Browser) {
		t.Errorf("Infer() not deterministic: %+v vs %+v", a, b)
	}
}
