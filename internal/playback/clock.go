package playback

import "sync/atomic"

// Clock is a monotonic logical counter stamping synchronization passes.
//
// Pass numbers appear in debug logs and let a trace of an editing session
// be ordered without wall-clock timestamps, which race under test.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the synchronizer's single-writer design means only one goroutine
// normally calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next pass number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest pass number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
