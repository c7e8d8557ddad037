// Package process resolves process details from a procfs mount.
package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Info describes a running process.
type Info struct {
	PID     int
	Name    string
	ExePath string
}

// FS reads process information below Root.
type FS struct {
	Root string
}

// Default reads the host's /proc.
var Default = FS{Root: "/proc"}

// Lookup returns what can be read about pid. The executable link is often
// unreadable for processes of other users; that leaves ExePath empty
// without failing the lookup.
func (fs FS) Lookup(pid int) (Info, error) {
	if pid <= 0 {
		return Info{}, errors.Errorf("invalid pid %d", pid)
	}

	dir := filepath.Join(fs.Root, strconv.Itoa(pid))
	info := Info{PID: pid}

	statData, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return Info{}, errors.Wrapf(err, "failed to read stat for pid %d", pid)
	}
	info.Name = parseStatName(string(statData))

	if exe, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		info.ExePath = strings.TrimSuffix(exe, " (deleted)")
	}

	return info, nil
}

// parseStatName extracts the comm field. The name sits between the first
// "(" and the last ")" since it may itself contain parentheses.
func parseStatName(stat string) string {
	start := strings.Index(stat, "(")
	end := strings.LastIndex(stat, ")")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return stat[start+1 : end]
}
