// Package timeline provides the canonical data model for the editor.
//
// This package contains type definitions and the passive timeline store.
// All other internal packages import timeline; timeline imports nothing
// internal. This ensures the model remains the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - All times are float64 seconds on the timeline or in source media
//   - Item intervals [Start, End) within one track never overlap
//   - Item order inside a track is NOT a reliable sort order after
//     mutation; neighbor lookups must scan by interval, never by index
//   - The Model holds no validation logic; every mutation goes through
//     the edit engine
package timeline
