package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"focuswatch/pkg/focus"
)

// FocusEvent is one settled focus change, flattened for storage. Empty
// strings stand for absent snapshot fields.
type FocusEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	AppName     string         `gorm:"index" json:"app_name"`
	BundleID    string         `json:"bundle_id"`
	ProcessPath string         `json:"process_path"`
	WindowTitle string         `json:"window_title"`
	HasWindow   bool           `gorm:"not null;default:false" json:"has_window"`
	TabTitle    string         `json:"tab_title"`
	Browser     string         `json:"browser"`
	EventSource string         `gorm:"not null" json:"event_source"`
	Confidence  string         `gorm:"not null" json:"confidence"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewFocusEvent flattens a snapshot.
func NewFocusEvent(s focus.Snapshot) (*FocusEvent, error) {
	ts, err := s.CapturedTime()
	if err != nil {
		return nil, fmt.Errorf("invalid captured_at %q: %w", s.CapturedAt, err)
	}

	e := &FocusEvent{
		Timestamp:   ts,
		EventSource: string(s.EventSource),
		Confidence:  string(s.ConfidenceLevel),
	}
	if s.Application != nil {
		e.AppName = s.Application.DisplayName
		e.BundleID = focus.Deref(s.Application.BundleID)
		e.ProcessPath = focus.Deref(s.Application.ProcessPath)
	}
	if s.Window != nil {
		e.HasWindow = true
		e.WindowTitle = s.Window.Title
	}
	if s.BrowserTab != nil {
		e.TabTitle = focus.Deref(s.BrowserTab.Title)
		e.Browser = focus.Deref(s.BrowserTab.Browser)
	}
	return e, nil
}

// Snapshot rebuilds the snapshot the event was recorded from.
func (e *FocusEvent) Snapshot() focus.Snapshot {
	s := focus.Snapshot{
		EventSource:     focus.EventSource(e.EventSource),
		ConfidenceLevel: focus.Confidence(e.Confidence),
		PrivacyFiltered: true,
		CapturedAt:      e.Timestamp.UTC().Format(focus.TimestampLayout),
	}
	if e.AppName != "" {
		s.Application = &focus.FocusedApplication{
			DisplayName: e.AppName,
			BundleID:    focus.OptionalString(e.BundleID),
			ProcessPath: focus.OptionalString(e.ProcessPath),
		}
	}
	if e.HasWindow {
		s.Window = &focus.FocusedWindow{Title: e.WindowTitle}
	}
	if e.Browser != "" {
		s.BrowserTab = &focus.FocusedBrowserTab{
			Title:   focus.OptionalString(e.TabTitle),
			Browser: focus.OptionalString(e.Browser),
		}
	}
	return s
}

type AppSummary struct {
	AppName      string  `json:"app_name"`
	TotalSeconds int64   `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	EventCount   int     `json:"event_count"`
	Percentage   float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod `json:"period"`
	Apps         []AppSummary `json:"apps"`
	TotalSeconds int64        `json:"total_seconds"`
	TotalMinutes float64      `json:"total_minutes"`
	TotalHours   float64      `json:"total_hours"`
	GeneratedAt  time.Time    `json:"generated_at"`
}
