package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuswatch/pkg/focus"
)

func TestFocusEventRoundTrip(t *testing.T) {
	s := focus.NewSnapshot(focus.SourcePolling)
	s.CapturedAt = "2024-05-01T09:30:00.123Z"
	s.Application = &focus.FocusedApplication{
		DisplayName: "chrome",
		ProcessPath: focus.OptionalString("/opt/google/chrome/chrome"),
	}
	s.Window = &focus.FocusedWindow{Title: "Example Page - Google Chrome"}
	s.BrowserTab = &focus.FocusedBrowserTab{
		Title:   focus.OptionalString("Example Page"),
		Browser: focus.OptionalString("chrome"),
	}
	s.ConfidenceLevel = focus.ConfidenceHigh

	e, err := NewFocusEvent(s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 123000000, time.UTC), e.Timestamp)
	assert.Equal(t, "chrome", e.AppName)
	assert.Equal(t, "Example Page", e.TabTitle)
	assert.Equal(t, "high", e.Confidence)

	back := e.Snapshot()
	assert.Equal(t, s.Key(), back.Key())
	assert.Equal(t, s.CapturedAt, back.CapturedAt)
	assert.Nil(t, back.Application.BundleID)
}

func TestFocusEventEmptySnapshot(t *testing.T) {
	s := focus.NewSnapshot(focus.SourceUnknown)

	e, err := NewFocusEvent(s)
	require.NoError(t, err)
	assert.Empty(t, e.AppName)
	assert.False(t, e.HasWindow)

	back := e.Snapshot()
	assert.Nil(t, back.Application)
	assert.Nil(t, back.Window)
	assert.Nil(t, back.BrowserTab)
	assert.Equal(t, focus.SourceUnknown, back.EventSource)
}

func TestFocusEventEmptyWindowTitle(t *testing.T) {
	s := focus.NewSnapshot(focus.SourcePolling)
	s.Window = &focus.FocusedWindow{Title: ""}

	e, err := NewFocusEvent(s)
	require.NoError(t, err)
	assert.NotNil(t, e.Snapshot().Window, "present but empty window survives storage")
}

func TestNewFocusEventInvalidTimestamp(t *testing.T) {
	s := focus.NewSnapshot(focus.SourcePolling)
	s.CapturedAt = "yesterday"

	_, err := NewFocusEvent(s)
	assert.Error(t, err)
}
