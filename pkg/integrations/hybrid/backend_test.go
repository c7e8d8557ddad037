package hybrid

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"focuswatch/pkg/focus"
)

type stubBackend struct {
	snap   focus.Snapshot
	caps   focus.Capabilities
	calls  int
	panics bool
	closed bool
	err    error
}

func (s *stubBackend) Query() focus.Snapshot {
	s.calls++
	if s.panics {
		panic("binding failure")
	}
	return s.snap
}

func (s *stubBackend) Capabilities() focus.Capabilities { return s.caps }

func (s *stubBackend) Close() error {
	s.closed = true
	return s.err
}

func withApp(name string) focus.Snapshot {
	s := focus.NewSnapshot(focus.SourcePolling)
	s.Application = &focus.FocusedApplication{DisplayName: name}
	s.ConfidenceLevel = focus.ConfidenceMedium
	return s
}

func TestQueryPrefersFirstInformativeBackend(t *testing.T) {
	primary := &stubBackend{snap: withApp("foot")}
	fallback := &stubBackend{snap: withApp("xterm")}
	b := NewBackend(zerolog.Nop(), primary, fallback)

	assert.Equal(t, "foot", b.Query().ApplicationName())
	assert.Equal(t, 0, fallback.calls)
}

func TestQueryFallsBack(t *testing.T) {
	primary := &stubBackend{snap: focus.NewSnapshot(focus.SourcePolling)}
	fallback := &stubBackend{snap: withApp("xterm")}
	b := NewBackend(zerolog.Nop(), primary, nil, fallback)

	assert.Equal(t, "xterm", b.Query().ApplicationName())
	assert.Equal(t, 1, primary.calls)
}

func TestQueryNothingFocused(t *testing.T) {
	b := NewBackend(zerolog.Nop(),
		&stubBackend{snap: focus.NewSnapshot(focus.SourcePolling)},
		&stubBackend{panics: true},
	)

	s := b.Query()
	assert.Nil(t, s.Application)
	assert.Nil(t, s.Window)
	assert.Equal(t, focus.SourceUnknown, s.EventSource)
}

func TestQueryNoMembers(t *testing.T) {
	s := NewBackend(zerolog.Nop()).Query()
	assert.Nil(t, s.Application)
	assert.Equal(t, focus.Capabilities{}, NewBackend(zerolog.Nop()).Capabilities())
}

func TestCapabilitiesUnion(t *testing.T) {
	b := NewBackend(zerolog.Nop(),
		&stubBackend{caps: focus.Capabilities{FocusedApplication: true}},
		&stubBackend{caps: focus.Capabilities{FocusedWindow: true, RealtimeEvents: true}},
	)

	assert.Equal(t, focus.Capabilities{
		FocusedApplication: true,
		FocusedWindow:      true,
		RealtimeEvents:     true,
	}, b.Capabilities())
}

func TestClose(t *testing.T) {
	first := &stubBackend{err: errors.New("close failed")}
	second := &stubBackend{}
	b := NewBackend(zerolog.Nop(), first, second)

	assert.EqualError(t, b.Close(), "close failed")
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}
