package playback

import (
	"context"
	"log/slog"
)

// Loop serializes commands and ticks onto the synchronizer's single
// logical turn.
//
// Enqueue is safe from any goroutine; Run must be called from exactly one.
// All slot mutation happens inside the Run goroutine, so the synchronizer
// itself needs no locking. A later event always supersedes the in-flight
// effects of an earlier one: processing an event is a full sync pass over
// current state, never a continuation of a previous pass.
type Loop struct {
	sync  *Synchronizer
	queue *eventQueue
}

// NewLoop wraps a synchronizer in an event loop.
func NewLoop(s *Synchronizer) *Loop {
	return &Loop{sync: s, queue: newEventQueue()}
}

// Synchronizer returns the wrapped synchronizer for read access
// (CurrentTime, Playing). Mutation goes through Enqueue.
func (l *Loop) Synchronizer() *Synchronizer {
	return l.sync
}

// Enqueue submits an event for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
// Returns false if the loop has been stopped.
func (l *Loop) Enqueue(e Event) bool {
	return l.queue.Enqueue(e)
}

// QueueLen returns the number of pending events. Useful for tests.
func (l *Loop) QueueLen() int {
	return l.queue.Len()
}

// Run starts the single-writer loop. Blocks until the context is
// cancelled or Stop is called and the queue drains.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("playback loop starting")

	for {
		event, ok := l.queue.TryDequeue()
		if ok {
			l.process(event)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("playback loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// Signal received, or the queue closed (channel closed).
			if l.queue.Len() == 0 {
				slog.Info("playback loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts the loop down. Run returns once pending events
// are drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

// RunPending processes queued events on the caller's goroutine until the
// queue is empty. For hosts that already own the single logical turn,
// such as the headless play simulation; concurrent hosts use Run.
func (l *Loop) RunPending() {
	for {
		event, ok := l.queue.TryDequeue()
		if !ok {
			return
		}
		l.process(event)
	}
}

// process routes one event to the synchronizer.
// Called only from the Run goroutine: single-writer guarantee.
func (l *Loop) process(e Event) {
	switch e.Type {
	case EventSetTime:
		l.sync.SetTime(e.Time)
	case EventSetPlaying:
		l.sync.SetPlaying(e.Playing)
	case EventPreviewChanged:
		if e.Preview != nil {
			l.sync.SetPreview(*e.Preview)
		}
	case EventTick:
		l.sync.HandleTick()
	default:
		slog.Warn("unknown playback event", "type", int(e.Type))
	}
}
