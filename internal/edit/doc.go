// Package edit implements the timeline edit operation engine.
//
// Every edit is a closed tagged-variant Command dispatched through
// Engine.Apply. Operations are total: a rejected command leaves the model
// byte-for-byte unchanged and Apply returns a typed *Rejection explaining
// why. There are no partial side effects.
//
// ARCHITECTURE:
//
// Single logical writer:
// The engine assumes the host serializes all commands onto one logical
// turn (an event loop or a single goroutine). Correctness comes from every
// operation being a pure, total, idempotent-when-retried function of the
// model, not from locking.
//
// Geometry rules enforced here:
//   - Within a track, item intervals never overlap
//   - Snapping pulls a moved edge onto a neighbor edge within SnapEps
//   - Neighbor relationships are computed by interval scans, never by
//     slice adjacency (item order inside a track is incidental)
//   - Duration never falls below timeline.MinDuration
package edit
