package playback

import (
	"log/slog"
	"math"

	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// lane holds one media kind's clip list and its slot pair.
type lane struct {
	name  string
	clips []timeline.PreviewClip
	slots [SlotsPerKind]*slot
}

// clipAt returns the index of the clip covering t. With overlapping
// visual clips the topmost wins: the clip list is z-ordered bottom first,
// so the last covering clip is the one painted on top.
func (ln *lane) clipAt(t float64) int {
	found := -1
	for i, c := range ln.clips {
		if c.TimelineStart <= t && t < c.TimelineEnd() {
			found = i
		}
	}
	return found
}

// nextAfter returns the index of the upcoming clip: the smallest
// TimelineStart strictly greater than t. -1 when nothing follows.
func (ln *lane) nextAfter(t float64) int {
	found := -1
	for i, c := range ln.clips {
		if c.TimelineStart > t {
			if found < 0 || c.TimelineStart < ln.clips[found].TimelineStart {
				found = i
			}
		}
	}
	return found
}

// Synchronizer drives the slot pool from the preview clip lists, the
// playhead and the play-state.
//
// Thread-safety model mirrors the single-writer loop:
//   - all methods must be called from exactly one goroutine
//   - concurrent callers go through Loop.Enqueue instead
type Synchronizer struct {
	video lane
	audio lane

	globalTime float64
	playing    bool
	duration   float64

	passes *Clock
}

// NewSynchronizer creates a synchronizer owning the given media handles.
// The handles are never exposed again: slot assignment and preloading are
// decided exclusively here, each pass.
func NewSynchronizer(video, audio [SlotsPerKind]MediaSlot) *Synchronizer {
	s := &Synchronizer{
		video:    lane{name: "video"},
		audio:    lane{name: "audio"},
		duration: timeline.MinPreviewDuration,
		passes:   NewClock(),
	}
	for i := 0; i < SlotsPerKind; i++ {
		s.video.slots[i] = &slot{media: video[i], clip: -1}
		s.audio.slots[i] = &slot{media: audio[i], clip: -1}
	}
	return s
}

// CurrentTime returns the global playhead position in timeline seconds.
func (s *Synchronizer) CurrentTime() float64 { return s.globalTime }

// Playing reports the global play-state.
func (s *Synchronizer) Playing() bool { return s.playing }

// Duration returns the total preview duration.
func (s *Synchronizer) Duration() float64 { return s.duration }

// SlotStates reports the state of every slot, video pair first. Used by
// the simulation output and tests.
func (s *Synchronizer) SlotStates() [2 * SlotsPerKind]SlotState {
	var out [2 * SlotsPerKind]SlotState
	for i := 0; i < SlotsPerKind; i++ {
		out[i] = s.video.slots[i].state
		out[SlotsPerKind+i] = s.audio.slots[i].state
	}
	return out
}

// SetPreview installs freshly sequenced clip lists. Clip indices from the
// previous model are meaningless, so every slot is unbound; the following
// pass rebinds them (a slot already holding the right URL is not
// reloaded, so an unrelated edit does not stall playback).
func (s *Synchronizer) SetPreview(p sequencer.Preview) {
	s.video.clips = p.Video
	s.audio.clips = p.Audio
	s.duration = p.Duration

	for _, ln := range []*lane{&s.video, &s.audio} {
		for _, sl := range ln.slots {
			sl.clip = -1
			if sl.state.active() {
				sl.state = SlotCued
			}
		}
	}

	if s.globalTime > s.duration {
		s.globalTime = s.duration
	}
	s.sync()
}

// SetTime scrubs the playhead.
func (s *Synchronizer) SetTime(t float64) {
	s.globalTime = math.Max(0, math.Min(t, s.duration))
	s.sync()
}

// SetPlaying toggles the global play-state.
func (s *Synchronizer) SetPlaying(playing bool) {
	s.playing = playing
	s.sync()
}

// HandleTick reacts to a native clock advance from the driving slot: it
// recomputes the global time from the slot's source position and runs a
// synchronization pass, which flips slots at clip boundaries, skips over
// lane gaps, and pauses at the end of the timeline.
func (s *Synchronizer) HandleTick() {
	drv := s.driver()
	sl := drv.activeSlot()
	if sl == nil || sl.clip < 0 {
		// No active slot means the playhead sits in a lane gap (or past
		// the last clip) with no native clock to derive time from. While
		// playing, jump ahead instead of stalling here forever.
		if s.playing && drv.clipAt(s.globalTime) < 0 {
			if n := drv.nextAfter(s.globalTime); n >= 0 {
				s.globalTime = drv.clips[n].TimelineStart
			} else {
				s.globalTime = s.duration
				s.playing = false
				slog.Debug("playback reached end of timeline", "duration", s.duration)
			}
			s.sync()
		}
		return
	}
	clip := drv.clips[sl.clip]

	// Global time derived from the driver's native clock.
	t := clip.TimelineStart + (sl.media.Position()-clip.SourceStart)/clip.PlaybackRate

	if t >= clip.TimelineEnd() && s.playing {
		// Crossed the clip's end. Either the next clip covers t already,
		// or we are in a lane gap and jump to the next clip's start, or
		// the timeline is over.
		if drv.clipAt(t) < 0 {
			if n := drv.nextAfter(clip.TimelineEnd() - timeline.AdjacencyEps); n >= 0 {
				t = math.Max(t, drv.clips[n].TimelineStart)
			} else {
				t = s.duration
			}
		}
	}

	if t >= s.duration {
		t = s.duration
		s.playing = false
		slog.Debug("playback reached end of timeline", "duration", s.duration)
	}

	s.globalTime = t
	s.sync()
}

// driver selects the master-clock lane: video whenever any video clip is
// present, otherwise audio.
func (s *Synchronizer) driver() *lane {
	if len(s.video.clips) > 0 {
		return &s.video
	}
	return &s.audio
}

func (ln *lane) activeSlot() *slot {
	for _, sl := range ln.slots {
		if sl.state.active() {
			return sl
		}
	}
	return nil
}

// sync is the synchronization pass: both lanes are reconciled against the
// global time and play-state. Pure function of synchronizer state; safe
// to run after every trigger.
func (s *Synchronizer) sync() {
	pass := s.passes.Next()
	s.syncLane(&s.video)
	s.syncLane(&s.audio)

	slog.Debug("sync pass",
		"pass", pass,
		"time", s.globalTime,
		"playing", s.playing,
	)
}

func (s *Synchronizer) syncLane(ln *lane) {
	activeIdx := ln.clipAt(s.globalTime)

	var activeSlot *slot
	if activeIdx >= 0 {
		activeSlot = ln.slots[activeIdx%SlotsPerKind]
		s.bindActive(ln, activeSlot, activeIdx)
	}

	// Preload the upcoming clip into the other slot. When the upcoming
	// clip maps onto the active slot by parity (possible after deletes
	// in a gap), preloading is skipped rather than evicting the active
	// binding.
	preloadIdx := ln.nextAfter(s.globalTime)
	var preloadSlot *slot
	if preloadIdx >= 0 {
		candidate := ln.slots[preloadIdx%SlotsPerKind]
		if candidate != activeSlot {
			preloadSlot = candidate
			s.cue(ln, preloadSlot, preloadIdx)
		}
	}

	// Anything else has no business being bound.
	for _, sl := range ln.slots {
		if sl != activeSlot && sl != preloadSlot {
			sl.release()
		}
	}
}

// bindActive points a slot at the clip covering the playhead and
// reconciles its native clock with the expected source time.
func (s *Synchronizer) bindActive(ln *lane, sl *slot, idx int) {
	clip := ln.clips[idx]

	if sl.media.URL() != clip.URL {
		sl.media.Load(clip.URL)
		slog.Debug("slot load", "lane", ln.name, "slot", idx%SlotsPerKind, "url", clip.URL)
	}
	sl.clip = idx

	// Drift correction: force a seek only past the threshold, otherwise
	// the native clock advances freely and playback stays smooth.
	expected := clip.SourceStart + (s.globalTime-clip.TimelineStart)*clip.PlaybackRate
	if math.Abs(sl.media.Position()-expected) > DriftThreshold {
		sl.media.Seek(expected)
		slog.Debug("drift corrected",
			"lane", ln.name,
			"clip", clip.ID,
			"expected", expected,
		)
	}

	sl.media.SetRate(clip.PlaybackRate)
	sl.media.SetVolume(clip.Volume)

	if s.playing {
		sl.media.Play()
		sl.state = SlotActivePlaying
	} else {
		sl.media.Pause()
		sl.state = SlotActivePaused
	}
}

// cue prepares a slot with a clip's in-point so the boundary crossing is
// a state flip, not a reload.
func (s *Synchronizer) cue(ln *lane, sl *slot, idx int) {
	clip := ln.clips[idx]
	if sl.clip == idx && sl.state == SlotCued && sl.media.URL() == clip.URL {
		return // already cued
	}

	if sl.media.URL() != clip.URL {
		sl.media.Load(clip.URL)
	}
	sl.media.Seek(clip.SourceStart)
	sl.media.SetRate(clip.PlaybackRate)
	sl.media.SetVolume(clip.Volume)
	sl.media.Pause()
	sl.state = SlotCued
	sl.clip = idx
}
