package playback

import (
	"sync"

	"github.com/framewright/cutline/internal/sequencer"
)

// EventType distinguishes the trigger kinds feeding the loop.
type EventType int

const (
	// EventSetTime is an external playhead scrub.
	EventSetTime EventType = iota + 1
	// EventSetPlaying is an external play/pause toggle.
	EventSetPlaying
	// EventPreviewChanged carries freshly sequenced clip lists after an
	// edit mutation.
	EventPreviewChanged
	// EventTick is a native clock-advance notification from the driving
	// slot.
	EventTick
)

// Event wraps the two trigger sources for the event queue.
type Event struct {
	Type    EventType
	Time    float64
	Playing bool
	Preview *sequencer.Preview
}

// eventQueue is a thread-safe FIFO queue for synchronizer events.
//
// The queue is unbounded so a burst of edits can never block the UI side.
// Thread-safety exists for external producers (command handlers, slot
// tick callbacks) while the Loop's Run goroutine dequeues.
//
// A buffered signal channel enables context-aware waiting in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	// Non-blocking signal; one pending signal is enough.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes and returns the front event without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events = q.events[1:]
	return e, true
}

// Wait returns the signal channel. It closes when the queue closes, which
// wakes any waiter immediately.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending events.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close marks the queue closed and wakes waiters. Idempotent.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
