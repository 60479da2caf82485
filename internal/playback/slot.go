package playback

// SlotsPerKind is the fixed pool size per media kind. Two slots (double
// buffering) suffice because at most one clip boundary is ever imminent.
const SlotsPerKind = 2

// DriftThreshold is the source-time divergence, in seconds, beyond which
// the synchronizer force-seeks a slot instead of letting its native clock
// run free.
const DriftThreshold = 0.25

// SlotState is the per-slot lifecycle. Transitions are driven exclusively
// by the synchronizer reacting to global-time changes and native ticks;
// nothing outside this package touches a slot.
//
//	idle -> cued -> active-playing / active-paused -> idle
type SlotState int

const (
	// SlotIdle means the slot is unbound.
	SlotIdle SlotState = iota
	// SlotCued means the slot holds the next clip, seeked to its
	// in-point, paused and ready to flip to active without a load stall.
	SlotCued
	// SlotActivePlaying means the slot is bound to the clip covering the
	// playhead and its native clock is advancing.
	SlotActivePlaying
	// SlotActivePaused means the slot is bound to the covering clip but
	// held still.
	SlotActivePaused
)

// String returns the state name for logs and simulation output.
func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotCued:
		return "cued"
	case SlotActivePlaying:
		return "active-playing"
	case SlotActivePaused:
		return "active-paused"
	default:
		return "unknown"
	}
}

func (s SlotState) active() bool {
	return s == SlotActivePlaying || s == SlotActivePaused
}

// MediaSlot is an independently clocked media handle: the editor-side
// abstraction of a video or audio element. The synchronizer treats slots
// as instantaneously seekable; buffering inside the handle is invisible
// to the scheduler.
//
// Position reports the handle's current source time in seconds. While
// playing, the handle's native clock advances Position by rate source
// seconds per wall second.
type MediaSlot interface {
	// Load binds a media source, resetting the position to zero.
	Load(url string)
	// Seek moves the native clock to a source time.
	Seek(seconds float64)
	Play()
	Pause()
	SetRate(rate float64)
	SetVolume(volume float64)
	Position() float64
	// URL returns the currently loaded source, "" when nothing is loaded.
	URL() string
}

// slot pairs a media handle with the synchronizer's bookkeeping.
type slot struct {
	media MediaSlot
	state SlotState
	clip  int // index into the lane's clip list, -1 when unbound
}

func (s *slot) release() {
	if s.state != SlotIdle {
		s.media.Pause()
	}
	s.state = SlotIdle
	s.clip = -1
}
