// Package sequencer flattens the multi-track timeline model into ordered,
// time-resolved preview clip lists ready for playback or export.
//
// Two composition strategies exist behind the Sequencer interface:
//
// Flat (canonical): all video and overlay tracks collapse, bottom track
// first, into one z-ordered visual clip list (later tracks paint on top,
// painter's algorithm); all audio tracks collapse into one audio list.
// Items are already time-placed by the edit engine, so their start and
// duration carry through unchanged. Flat supports arbitrary overlapping
// multi-track edits.
//
// GraphChain (secondary): clips are nodes with explicit edges. A backward
// traversal from a designated output node follows one incoming edge per
// named input socket, accumulating a linear chain whose members are packed
// back-to-back. The walk guards against cycles with a visited set since
// malformed edge data could otherwise loop forever; a cyclic tail is
// silently truncated. Chain mode cannot express overlapping edits, which
// is why flat is the default.
//
// Unresolvable assets degrade to a placeholder rather than failing the
// whole track. Nothing in this package is fatal.
package sequencer
