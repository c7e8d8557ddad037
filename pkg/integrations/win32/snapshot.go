// Package win32 implements the focus backend for Windows on top of the
// foreground window APIs.
package win32

import (
	"strings"
	"unicode/utf16"

	"focuswatch/pkg/integrations/common"
)

// titleBufferLen bounds GetWindowTextW; longer titles are truncated.
const titleBufferLen = 512

// foregroundWindow assembles what one query resolved. The application is
// only known when the process path could be read.
func foregroundWindow(found bool, title, processPath string) common.Window {
	w := common.Window{
		Found:       found,
		Title:       title,
		ProcessPath: processPath,
	}
	if processPath != "" {
		w.AppName = displayNameFromPath(processPath)
	}
	return w
}

// displayNameFromPath returns the file stem of a Windows executable path.
// Both separators are accepted so the helper behaves the same on every OS.
func displayNameFromPath(path string) string {
	base := path
	if idx := strings.LastIndexAny(path, `\/`); idx >= 0 {
		base = path[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return path
	}
	return base
}

// titleFromBuffer decodes the first n UTF-16 units written by GetWindowTextW.
func titleFromBuffer(buf []uint16, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(buf) {
		n = len(buf)
	}
	return string(utf16.Decode(buf[:n]))
}
