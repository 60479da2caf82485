// Package playback implements the preview playback synchronizer.
//
// The synchronizer turns the sequencer's clip lists plus the current
// playhead position and play-state into commands against a small fixed
// pool of media slots: two per media kind (double buffering). At any
// instant one slot per kind is active (bound to the clip covering the
// playhead) and the other is preloaded with the next clip, cued to its
// in-point, so crossing a cut only flips which slot is active. Slot
// assignment uses index parity (clip index mod 2) purely as a rotation
// mechanism, never as semantic identity.
//
// ARCHITECTURE:
//
// Single-writer reactive loop:
// All synchronizer state is touched from one logical turn. Two trigger
// sources exist: external commands (scrub, play/pause, model change) and
// native clock ticks from whichever slot currently drives the global
// clock. The Loop serializes both onto one goroutine via a FIFO event
// queue; a later trigger always supersedes the effects of an earlier one
// (last-write-wins), so no cancellation tokens are needed.
//
// Master clock:
// If any video clip exists the active video slot's natural time advance
// drives the global clock; an audio-only timeline is driven by the active
// audio slot. Reaching the end of the last clip pauses playback and
// clamps the global time to the total preview duration.
//
// Drift correction:
// On every pass the expected source time is computed from the global
// time; the slot is force-seeked only when it has drifted past
// DriftThreshold, otherwise its native clock runs free to avoid
// seek-induced stutter.
package playback
