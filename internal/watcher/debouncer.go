package watcher

import (
	"time"

	"focuswatch/pkg/focus"
)

// Debouncer turns a stream of samples into settled changes. A new value is
// held as pending and re-armed whenever the sampled key changes again; it is
// released once it has held for the window. Not safe for concurrent use.
type Debouncer struct {
	window time.Duration

	pending    *focus.Snapshot
	pendingKey focus.Key
	lastChange time.Time

	// settled is the last key released and acknowledged, delivered or not.
	settled    focus.Key
	hasSettled bool

	emitted    focus.Key
	hasEmitted bool
}

// NewDebouncer creates a debouncer with the given dwell window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Observe feeds one sample taken at now. It returns the pending snapshot once
// it is due; the caller delivers it and reports the outcome with Ack.
func (d *Debouncer) Observe(now time.Time, snap focus.Snapshot) *focus.Snapshot {
	key := snap.Key()

	switch {
	case d.hasSettled && key == d.settled:
		// Back to the last reported value before the change settled.
		d.pending = nil
	case d.pending == nil || key != d.pendingKey:
		d.pending = &snap
		d.pendingKey = key
		d.lastChange = now
	}

	if d.pending == nil || now.Sub(d.lastChange) < d.window {
		return nil
	}

	due := d.pending
	d.pending = nil

	// The host already holds this value from an earlier delivery.
	if d.hasEmitted && d.pendingKey == d.emitted {
		d.settled = d.pendingKey
		d.hasSettled = true
		return nil
	}
	return due
}

// Ack records the delivery outcome for a snapshot returned by Observe. A
// failed delivery is dropped: the value is not offered again until the key
// changes.
func (d *Debouncer) Ack(key focus.Key, delivered bool) {
	d.settled = key
	d.hasSettled = true
	if delivered {
		d.emitted = key
		d.hasEmitted = true
	}
}

// Due reports when the pending change will be released if it holds.
func (d *Debouncer) Due() (time.Time, bool) {
	if d.pending == nil {
		return time.Time{}, false
	}
	return d.lastChange.Add(d.window), true
}

// LastEmitted returns the key of the last successfully delivered snapshot.
func (d *Debouncer) LastEmitted() (focus.Key, bool) {
	return d.emitted, d.hasEmitted
}
