package watcher

import "focuswatch/pkg/focus"

// EventFocusChanged is the event name used for settled focus changes.
const EventFocusChanged = "focus_context_changed"

// Sink receives settled focus changes. Deliver may be called from the
// watcher goroutine; a returned error drops that one change.
type Sink interface {
	Deliver(focus.Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(focus.Snapshot) error

func (f SinkFunc) Deliver(s focus.Snapshot) error {
	return f(s)
}

// Emitter is the subset of an event bus the watcher needs.
type Emitter interface {
	Emit(name string, payload any) error
}

// BusSink delivers changes to e as EventFocusChanged events carrying the
// snapshot.
func BusSink(e Emitter) Sink {
	return SinkFunc(func(s focus.Snapshot) error {
		return e.Emit(EventFocusChanged, s)
	})
}
