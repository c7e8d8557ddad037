// Package hybrid chains focus backends, asking each in turn until one of
// them sees a focused window.
package hybrid

import (
	"io"

	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
)

// Backend queries its members in order and returns the first snapshot that
// resolved an application or a window.
type Backend struct {
	backends []focus.Backend
	log      zerolog.Logger
}

// NewBackend chains backends. Nil members are skipped.
func NewBackend(log zerolog.Logger, backends ...focus.Backend) *Backend {
	b := &Backend{log: log.With().Str("component", "hybrid_backend").Logger()}
	for _, backend := range backends {
		if backend != nil {
			b.backends = append(b.backends, backend)
		}
	}
	return b
}

// Capabilities is the union of the members' capabilities.
func (b *Backend) Capabilities() focus.Capabilities {
	var caps focus.Capabilities
	for _, backend := range b.backends {
		c := backend.Capabilities()
		caps.FocusedApplication = caps.FocusedApplication || c.FocusedApplication
		caps.FocusedWindow = caps.FocusedWindow || c.FocusedWindow
		caps.FocusedBrowserTab = caps.FocusedBrowserTab || c.FocusedBrowserTab
		caps.RealtimeEvents = caps.RealtimeEvents || c.RealtimeEvents
		caps.PrivateBrowsing = caps.PrivateBrowsing || c.PrivateBrowsing
	}
	return caps
}

// Query returns the first informative snapshot, or the last member's empty
// one when nobody saw anything.
func (b *Backend) Query() focus.Snapshot {
	snap := focus.NewSnapshot(focus.SourceUnknown)
	for i, backend := range b.backends {
		snap = focus.SafeQuery(backend)
		if snap.Application != nil || snap.Window != nil {
			if i > 0 {
				b.log.Debug().Int("member", i).Msg("Focus resolved by fallback backend")
			}
			return snap
		}
	}
	return snap
}

// Close closes every member that holds resources.
func (b *Backend) Close() error {
	var first error
	for _, backend := range b.backends {
		if c, ok := backend.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
