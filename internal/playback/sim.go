package playback

// SimSlot is a headless MediaSlot with a hand-driven native clock. It
// backs the play simulation command and the synchronizer tests: Advance
// plays the role of wall time passing inside a real media element.
//
// Not safe for concurrent use; like real slots it lives on the loop's
// single logical turn.
type SimSlot struct {
	name    string
	url     string
	pos     float64
	rate    float64
	volume  float64
	playing bool

	loads int
	seeks int
}

// NewSimSlot creates an empty slot. The name shows up in simulation output.
func NewSimSlot(name string) *SimSlot {
	return &SimSlot{name: name, rate: 1}
}

// Advance moves the native clock by dt wall seconds: the position gains
// dt*rate source seconds while playing and holds still otherwise.
func (s *SimSlot) Advance(dt float64) {
	if s.playing {
		s.pos += dt * s.rate
	}
}

// Load implements MediaSlot.
func (s *SimSlot) Load(url string) {
	s.url = url
	s.pos = 0
	s.playing = false
	s.loads++
}

// Seek implements MediaSlot.
func (s *SimSlot) Seek(seconds float64) {
	s.pos = seconds
	s.seeks++
}

// Play implements MediaSlot.
func (s *SimSlot) Play() { s.playing = true }

// Pause implements MediaSlot.
func (s *SimSlot) Pause() { s.playing = false }

// SetRate implements MediaSlot.
func (s *SimSlot) SetRate(rate float64) { s.rate = rate }

// SetVolume implements MediaSlot.
func (s *SimSlot) SetVolume(volume float64) { s.volume = volume }

// Position implements MediaSlot.
func (s *SimSlot) Position() float64 { return s.pos }

// URL implements MediaSlot.
func (s *SimSlot) URL() string { return s.url }

// Name returns the slot's display name.
func (s *SimSlot) Name() string { return s.name }

// Volume returns the last volume applied by the synchronizer.
func (s *SimSlot) Volume() float64 { return s.volume }

// IsPlaying reports whether the native clock is advancing.
func (s *SimSlot) IsPlaying() bool { return s.playing }

// Loads returns how many times a source was (re)loaded. A boundary flip
// between cued slots must not increase this.
func (s *SimSlot) Loads() int { return s.loads }

// Seeks returns how many times the native clock was force-moved.
func (s *SimSlot) Seeks() int { return s.seeks }
