// Package bus is a small in-process event bus. Handlers run synchronously on
// the emitting goroutine; a panicking handler is logged and skipped.
package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Wildcard subscribes to every event name.
const Wildcard = "*"

var (
	// ErrClosed is returned by Emit after Close.
	ErrClosed = errors.New("bus: closed")

	// ErrNoSubscribers is returned by Emit when nobody listens for the name.
	ErrNoSubscribers = errors.New("bus: no subscribers")
)

// Event is one emission.
type Event struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload"`
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus fans events out to subscribers. Safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   uint64
	closed   bool
	now      func() time.Time
	log      zerolog.Logger
}

// New creates an empty bus.
func New(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]subscription),
		now:      time.Now,
		log:      log.With().Str("component", "bus").Logger(),
	}
}

// Subscribe registers h for name (or Wildcard). The returned function
// removes the subscription and may be called more than once.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[name]
	for i, s := range subs {
		if s.id == id {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}

// Emit delivers payload to every subscriber of name and of Wildcard.
func (b *Bus) Emit(name string, payload any) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	subs := make([]subscription, 0, len(b.handlers[name])+len(b.handlers[Wildcard]))
	subs = append(subs, b.handlers[name]...)
	if name != Wildcard {
		subs = append(subs, b.handlers[Wildcard]...)
	}
	b.mu.RUnlock()

	if len(subs) == 0 {
		return ErrNoSubscribers
	}

	event := Event{
		ID:      uuid.NewString(),
		Name:    name,
		Time:    b.now().UTC(),
		Payload: payload,
	}
	for _, s := range subs {
		b.dispatch(s.handler, event)
	}
	return nil
}

func (b *Bus) dispatch(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("event", event.Name).
				Str("event_id", event.ID).
				Msg("Event handler panicked")
		}
	}()
	h(event)
}

// SubscriberCount returns the number of handlers registered for name.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Close drops every subscription. Emit fails with ErrClosed afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.handlers = make(map[string][]subscription)
}
