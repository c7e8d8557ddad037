// Package tracker runs the watcher against a focus backend and records
// every settled change in the history database.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focuswatch/internal/bus"
	"focuswatch/internal/config"
	"focuswatch/internal/models"
	"focuswatch/internal/sound"
	"focuswatch/internal/watcher"
	"focuswatch/pkg/focus"
)

// ErrAlreadyRunning is returned by Start on a service that is running.
var ErrAlreadyRunning = errors.New("tracker is already running")

// Store is the write side of the history database.
type Store interface {
	Create(event *models.FocusEvent) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// Chime plays the recording start and stop tones.
type Chime interface {
	Play(kind sound.Kind)
}

type Service struct {
	config  *config.Config
	store   Store
	backend focus.Backend
	bus     *bus.Bus
	chime   Chime
	root    zerolog.Logger
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	handle  *watcher.Handle
	last    focus.Snapshot
	hasLast bool
}

// NewService wires a tracker. The bus may be shared with other subscribers;
// the service never closes it.
func NewService(cfg *config.Config, store Store, backend focus.Backend, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{
		config:  cfg,
		store:   store,
		backend: backend,
		bus:     b,
		root:    log,
		log:     log.With().Str("component", "tracker").Logger(),
		now:     time.Now,
	}
}

// SetChime enables start and stop tones.
func (s *Service) SetChime(c Chime) {
	s.chime = c
}

// Start records focus changes until ctx is cancelled or Stop is called. It
// blocks for the whole run.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.handle != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}

	unsubscribe := s.bus.Subscribe(watcher.EventFocusChanged, s.record)
	h := watcher.Start(ctx, s.backend, watcher.BusSink(s.bus),
		watcher.WithPollInterval(s.config.Watcher.PollInterval),
		watcher.WithDebounceWindow(s.config.Watcher.DebounceWindow),
		watcher.WithLogger(s.root),
	)
	s.handle = h
	s.mu.Unlock()

	s.log.Info().
		Dur("poll_interval", s.config.Watcher.PollInterval).
		Dur("debounce_window", s.config.Watcher.DebounceWindow).
		Msg("Starting tracker")
	s.playChime(sound.RecordingStarted)

	h.Wait()

	unsubscribe()
	s.mu.Lock()
	s.handle = nil
	s.mu.Unlock()

	s.playChime(sound.RecordingStopped)

	if err := ctx.Err(); err != nil {
		s.log.Info().Msg("Tracker stopped by context")
		return err
	}
	s.log.Info().Msg("Tracker stopped")
	return nil
}

// Stop ends a running Start. It is a no-op when the service is idle.
func (s *Service) Stop() {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Current queries the backend directly, bypassing the debouncer.
func (s *Service) Current() focus.Snapshot {
	return focus.SafeQuery(s.backend)
}

// LastRecorded returns the last change this service recorded.
func (s *Service) LastRecorded() (focus.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

func (s *Service) Capabilities() focus.Capabilities {
	return s.backend.Capabilities()
}

func (s *Service) record(e bus.Event) {
	snap, ok := e.Payload.(focus.Snapshot)
	if !ok {
		s.storeError(fmt.Errorf("unexpected %s payload %T", e.Name, e.Payload))
		return
	}

	event, err := models.NewFocusEvent(snap)
	if err != nil {
		s.storeError(err)
		return
	}
	if err := s.store.Create(event); err != nil {
		s.storeError(fmt.Errorf("failed to save event: %w", err))
		return
	}

	s.mu.Lock()
	s.last, s.hasLast = snap, true
	s.mu.Unlock()

	s.log.Debug().
		Str("app", snap.ApplicationName()).
		Str("confidence", string(snap.ConfidenceLevel)).
		Msg("Recorded focus change")
}

func (s *Service) storeError(err error) {
	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		Component: "tracker",
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.store.CreateErrorLog(errorLog); dbErr != nil {
		s.log.Error().Err(dbErr).AnErr("original", err).Msg("Failed to store error in database")
	} else {
		s.log.Warn().Err(err).Msg("Error logged to database")
	}
}

func (s *Service) playChime(kind sound.Kind) {
	if s.chime != nil {
		s.chime.Play(kind)
	}
}
