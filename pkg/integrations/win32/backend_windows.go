//go:build windows

package win32

import (
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"focuswatch/pkg/focus"
	"focuswatch/pkg/integrations/common"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// Backend implements focus.Backend with GetForegroundWindow.
type Backend struct {
	log zerolog.Logger
}

// NewBackend creates a Windows backend.
func NewBackend(log zerolog.Logger) *Backend {
	return &Backend{log: log.With().Str("component", "win32_backend").Logger()}
}

// Capabilities reports application, window and tab detection.
func (b *Backend) Capabilities() focus.Capabilities {
	return common.DesktopCapabilities
}

// Query resolves the foreground window, its title and its process.
func (b *Backend) Query() (snap focus.Snapshot) {
	defer focus.Recover(&snap, focus.SourcePolling)

	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return foregroundWindow(false, "", "").Snapshot(focus.SourcePolling)
	}

	return foregroundWindow(true, b.windowTitle(hwnd), b.processPath(hwnd)).Snapshot(focus.SourcePolling)
}

func (b *Backend) windowTitle(hwnd windows.HWND) string {
	if err := procGetWindowTextW.Find(); err != nil {
		b.log.Debug().Err(err).Msg("GetWindowTextW unavailable")
		return ""
	}

	buf := make([]uint16, titleBufferLen)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return titleFromBuffer(buf, int(n))
}

// processPath opens the owning process with limited query rights, which
// works without elevation for most processes.
func (b *Backend) processPath(hwnd windows.HWND) string {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return ""
	}

	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		b.log.Debug().Err(err).Uint32("pid", pid).Msg("OpenProcess failed")
		return ""
	}
	defer windows.CloseHandle(handle)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size); err != nil {
		b.log.Debug().Err(err).Uint32("pid", pid).Msg("QueryFullProcessImageName failed")
		return ""
	}

	return windows.UTF16ToString(buf[:size])
}
