// Package watcher polls a focus backend and delivers settled focus changes
// to a sink.
package watcher

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"focuswatch/pkg/focus"
)

// control is shared by the handle and the loop. The loop must not reference
// the Handle itself, otherwise the cleanup below could never run.
type control struct {
	stopped atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func (c *control) stop() {
	if c.stopped.CompareAndSwap(false, true) {
		c.cancel()
	}
}

// Handle controls a running watcher.
type Handle struct {
	ctl *control
}

// Start launches a watcher goroutine that samples backend at a fixed rate and
// delivers settled changes to sink. The watcher runs until Stop is called,
// ctx is cancelled, or the handle becomes unreachable.
func Start(ctx context.Context, backend focus.Backend, sink Sink, opts ...Option) *Handle {
	o := newOptions(opts)
	ctx, cancel := context.WithCancel(ctx)

	ctl := &control{cancel: cancel, done: make(chan struct{})}
	l := &loop{
		backend:   backend,
		sink:      sink,
		debouncer: NewDebouncer(o.debounceWindow),
		poll:      o.pollInterval,
		now:       o.now,
		log:       o.log.With().Str("component", "watcher").Logger(),
		ctl:       ctl,
	}

	h := &Handle{ctl: ctl}
	runtime.AddCleanup(h, func(c *control) { c.stop() }, ctl)

	go l.run(ctx)
	return h
}

// Stop signals the watcher to exit. It is idempotent and safe for concurrent
// use; it does not wait for the goroutine.
func (h *Handle) Stop() {
	h.ctl.stop()
}

// Close stops the watcher. It implements io.Closer for defer use.
func (h *Handle) Close() error {
	h.Stop()
	return nil
}

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool {
	return h.ctl.stopped.Load()
}

// Done is closed once the watcher goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.ctl.done
}

// Wait blocks until the watcher goroutine has exited.
func (h *Handle) Wait() {
	<-h.ctl.done
}

type loop struct {
	backend   focus.Backend
	sink      Sink
	debouncer *Debouncer
	poll      time.Duration
	now       func() time.Time
	log       zerolog.Logger
	ctl       *control
}

func (l *loop) run(ctx context.Context) {
	defer close(l.ctl.done)
	defer l.ctl.stop()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	// confirm samples once more when a pending change becomes due between
	// two ticks.
	confirm := time.NewTimer(l.poll)
	confirm.Stop()
	defer confirm.Stop()

	l.log.Debug().
		Dur("poll_interval", l.poll).
		Dur("debounce_window", l.debouncer.window).
		Msg("Watcher started")

	for {
		if l.ctl.stopped.Load() || ctx.Err() != nil {
			l.log.Debug().Msg("Watcher stopped")
			return
		}

		l.cycle()

		if due, ok := l.debouncer.Due(); ok {
			confirm.Reset(max(due.Sub(l.now()), 0))
		} else {
			confirm.Stop()
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		case <-confirm.C:
		}
	}
}

func (l *loop) cycle() {
	snap := focus.SafeQuery(l.backend)

	due := l.debouncer.Observe(l.now(), snap)
	if due == nil {
		return
	}
	if l.ctl.stopped.Load() {
		return
	}

	key := due.Key()
	err := l.deliver(*due)
	l.debouncer.Ack(key, err == nil)

	if err != nil {
		l.log.Debug().Err(err).Msg("Focus change dropped")
		return
	}
	l.log.Debug().
		Str("application", due.ApplicationName()).
		Str("confidence", string(due.ConfidenceLevel)).
		Msg("Focus change delivered")
}

// deliver calls the sink, converting a panic into an error so a faulty sink
// cannot kill the loop.
func (l *loop) deliver(s focus.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &sinkPanic{value: r}
		}
	}()
	return l.sink.Deliver(s)
}
