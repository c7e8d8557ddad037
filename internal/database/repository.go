package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"focuswatch/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository handles all database operations for focus events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new focus event into the database. Timestamps are stored
// in UTC so range queries compare consistently.
func (r *Repository) Create(event *models.FocusEvent) error {
	event.Timestamp = event.Timestamp.UTC()
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert focus event")
	}
	return nil
}

// GetByID retrieves a focus event by its ID
func (r *Repository) GetByID(id uint) (*models.FocusEvent, error) {
	var event models.FocusEvent
	result := r.db.First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get focus event")
	}
	return &event, nil
}

// GetEventsSince retrieves all focus events since a given time, oldest first
func (r *Repository) GetEventsSince(since time.Time) ([]*models.FocusEvent, error) {
	var events []*models.FocusEvent
	result := r.db.Where("timestamp >= ?", since.UTC()).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query focus events")
	}

	return events, nil
}

// GetEventsBetween retrieves focus events in [start, end), oldest first
func (r *Repository) GetEventsBetween(start, end time.Time) ([]*models.FocusEvent, error) {
	var events []*models.FocusEvent
	result := r.db.Where("timestamp >= ? AND timestamp < ?", start.UTC(), end.UTC()).Order("timestamp ASC").Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query focus events")
	}

	return events, nil
}

// GetRecent retrieves the latest limit events, newest first
func (r *Repository) GetRecent(limit int) ([]*models.FocusEvent, error) {
	var events []*models.FocusEvent
	result := r.db.Order("timestamp DESC").Limit(limit).Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query recent events")
	}

	return events, nil
}

// GetLatest retrieves the most recent focus event, nil when there is none
func (r *Repository) GetLatest() (*models.FocusEvent, error) {
	var event models.FocusEvent
	result := r.db.Order("timestamp DESC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// Count returns the number of stored focus events
func (r *Repository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.FocusEvent{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count focus events")
	}
	return count, nil
}

// DeleteOldEvents deletes events older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before.UTC()).Delete(&models.FocusEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	errorLog.Timestamp = errorLog.Timestamp.UTC()
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetErrorLogsSince retrieves error logs since a given time, oldest first
func (r *Repository) GetErrorLogsSince(since time.Time) ([]*models.ErrorLog, error) {
	var logs []*models.ErrorLog
	result := r.db.Where("timestamp >= ?", since.UTC()).Order("timestamp ASC").Find(&logs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query error logs")
	}
	return logs, nil
}

// Clear removes all focus events from the database
func (r *Repository) Clear() error {
	result := r.db.Exec("DELETE FROM focus_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear focus events")
	}
	return nil
}
