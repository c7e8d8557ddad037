// Package unsupported provides the focus backend used on platforms without
// a native implementation.
package unsupported

import "focuswatch/pkg/focus"

// Backend resolves nothing but still produces well-formed snapshots.
type Backend struct{}

// NewBackend creates the fallback backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Query returns a snapshot with every field absent.
func (b *Backend) Query() focus.Snapshot {
	return focus.NewSnapshot(focus.SourceUnknown)
}

// Capabilities reports no detection support.
func (b *Backend) Capabilities() focus.Capabilities {
	return focus.Capabilities{}
}
