package win32

import (
	"strings"
	"testing"
	"unicode/utf16"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/common"
)

func TestDisplayNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`C:\Program Files\Google\Chrome\Application\chrome.exe`, "chrome"},
		{`C:\Windows\System32\notepad.exe`, "notepad"},
		{`C:/tools/my.app.exe`, "my.app"},
		{`explorer`, "explorer"},
		{`.hidden`, ".hidden"},
		{`C:\dir\`, `C:\dir\`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := displayNameFromPath(tt.path); got != tt.want {
				t.Errorf("displayNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestTitleFromBuffer(t *testing.T) {
	buf := make([]uint16, titleBufferLen)
	encoded := utf16.Encode([]rune("Résumé - Word"))
	n := copy(buf, encoded)

	if got := titleFromBuffer(buf, n); got != "Résumé - Word" {
		t.Errorf("titleFromBuffer() = %q", got)
	}
	if got := titleFromBuffer(buf, 0); got != "" {
		t.Errorf("titleFromBuffer(0) = %q, want empty", got)
	}
	if got := titleFromBuffer(buf[:3], 10); len([]rune(got)) != 3 {
		t.Errorf("titleFromBuffer() did not clamp to buffer: %q", got)
	}
}

func TestForegroundSnapshot(t *testing.T) {
	tests := []struct {
		name           string
		found          bool
		title          string
		path           string
		wantApp        string
		wantWindow     bool
		wantTab        bool
		wantConfidence focus.Confidence
	}{
		{
			name:           "No foreground window",
			wantConfidence: focus.ConfidenceLow,
		},
		{
			name: "Browser window",
			found: true,
			title: "Example Page - Google Chrome",
			path:  `C:\Program Files\Google\Chrome\Application\chrome.exe`,
			wantApp:        "chrome",
			wantWindow:     true,
			wantTab:        true,
			wantConfidence: focus.ConfidenceHigh,
		},
		{
			name: "Editor window",
			found: true,
			title: "Notepad.exe",
			path:  `C:\Windows\notepad.exe`,
			wantApp:        "notepad",
			wantWindow:     true,
			wantConfidence: focus.ConfidenceHigh,
		},
		{
			name: "Process lookup denied",
			found: true,
			title: "Task Manager",
			wantWindow:     true,
			wantConfidence: focus.ConfidenceLow,
		},
		{
			name: "Untitled window",
			found: true,
			path:  `C:\Windows\explorer.exe`,
			wantApp:        "explorer",
			wantConfidence: focus.ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := foregroundWindow(tt.found, tt.title, tt.path).Snapshot(focus.SourcePolling)

			if s.ApplicationName() != tt.wantApp {
				t.Errorf("app = %q, want %q", s.ApplicationName(), tt.wantApp)
			}
			if (s.Window != nil) != tt.wantWindow {
				t.Errorf("window present = %v, want %v", s.Window != nil, tt.wantWindow)
			}
			if (s.BrowserTab != nil) != tt.wantTab {
				t.Errorf("tab present = %v, want %v", s.BrowserTab != nil, tt.wantTab)
			}
			if s.ConfidenceLevel != tt.wantConfidence {
				t.Errorf("confidence = %s, want %s", s.ConfidenceLevel, tt.wantConfidence)
			}
			if s.Application != nil && !strings.HasSuffix(focus.Deref(s.Application.ProcessPath), ".exe") {
				t.Errorf("ProcessPath = %q", focus.Deref(s.Application.ProcessPath))
			}
			if s.EventSource != focus.SourcePolling || !s.PrivacyFiltered {
				t.Errorf("unexpected source/privacy: %s %v", s.EventSource, s.PrivacyFiltered)
			}
			if !common.DesktopCapabilities.Permits(s) {
				t.Error("snapshot populated a field its capabilities forbid")
			}
		})
	}
}
