package timeline

// TrackKind classifies what a track carries.
type TrackKind string

const (
	// TrackVideo holds the primary visual clips.
	TrackVideo TrackKind = "video"
	// TrackAudio holds sound clips.
	TrackAudio TrackKind = "audio"
	// TrackOverlay holds visual clips painted above the video tracks.
	TrackOverlay TrackKind = "overlay"
)

// Visual reports whether items on this track contribute to the visual
// composition (video and overlay tracks) rather than the audio mix.
func (k TrackKind) Visual() bool {
	return k == TrackVideo || k == TrackOverlay
}

// MediaKind classifies the media behind an asset or preview clip.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// Geometry and policy constants. All durations are seconds.
const (
	// MinDuration is the smallest duration any item may have at any time.
	MinDuration = 0.1

	// SnapEps is the distance below which a dragged edge is forced to
	// align with a neighbor's edge.
	SnapEps = 0.2

	// AdjacencyEps is the tolerance used when deciding whether two item
	// intervals touch. Accounts for float rounding after repeated edits.
	AdjacencyEps = 1e-6

	// DefaultClipDuration is used when neither the caller nor the asset
	// provides a duration.
	DefaultClipDuration = 5.0

	// ImageClipDuration is the policy duration for still images. Images
	// have no intrinsic length, so the source duration is ignored.
	ImageClipDuration = 5.0

	// DurationPadding is appended after the last item when computing the
	// project duration, leaving room to drop clips at the end.
	DurationPadding = 5.0

	// MinProjectDuration is the floor for the computed project duration.
	MinProjectDuration = 30.0

	// MinPreviewDuration is the floor for the sequenced preview duration.
	MinPreviewDuration = 10.0

	// PlaceholderSourceDuration is assumed for unresolvable assets so the
	// rest of the timeline remains schedulable.
	PlaceholderSourceDuration = 10.0
)

// Item is a single non-destructive clip placed on a track.
//
// The interval it occupies on the timeline is [Start, Start+Duration).
// SourceOffset is the in-point within the original asset; PlaybackRate
// maps timeline seconds to source seconds (source consumed per timeline
// second).
type Item struct {
	ID           string  `json:"id"`
	ResourceID   string  `json:"resource_id"`
	TrackID      string  `json:"track_id"`
	Start        float64 `json:"start"`
	Duration     float64 `json:"duration"`
	SourceOffset float64 `json:"source_offset"`
	PlaybackRate float64 `json:"playback_rate"`
	Volume       float64 `json:"volume"`
}

// End returns the exclusive end of the item's timeline interval.
func (it Item) End() float64 {
	return it.Start + it.Duration
}

// Overlaps reports whether the item's interval intersects [start, start+duration).
func (it Item) Overlaps(start, duration float64) bool {
	return start < it.End() && it.Start < start+duration
}

// SourceEnd returns the out-point within the asset, scaled by rate.
func (it Item) SourceEnd() float64 {
	return it.SourceOffset + it.Duration*it.PlaybackRate
}

// Track holds time-placed, non-overlapping items of one kind.
//
// Items is mutated only by the edit engine. Its order is incidental:
// split appends and move does not re-sort, so consumers must never rely
// on array adjacency for neighbor relationships.
type Track struct {
	ID    string    `json:"id"`
	Kind  TrackKind `json:"kind"`
	Items []Item    `json:"items"`
	Muted bool      `json:"muted"`
}

// Asset describes source media referenced by items. Read-only to the
// editing core; provided by the asset subsystem.
type Asset struct {
	ResourceID     string    `json:"resource_id"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	SourceDuration float64   `json:"source_duration"` // <= 0 means unknown
	Kind           MediaKind `json:"kind"`
	Filmstrip      []string  `json:"filmstrip,omitempty"`
}

// KnownDuration reports whether the asset's source duration is known.
func (a Asset) KnownDuration() bool {
	return a.SourceDuration > 0
}

// PlaceholderAsset synthesizes a stand-in for an unresolvable resource so
// sequencing and playback can proceed without the real media.
func PlaceholderAsset(resourceID string) Asset {
	return Asset{
		ResourceID:     resourceID,
		Name:           resourceID,
		URL:            "",
		SourceDuration: PlaceholderSourceDuration,
		Kind:           MediaVideo,
	}
}

// PreviewClip is the derived, time-resolved clip description consumed by
// playback and export. Recomputed on every model change, never persisted.
type PreviewClip struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	SourceStart      float64   `json:"source_start"`
	SourceEnd        float64   `json:"source_end"`
	Volume           float64   `json:"volume"`
	PlaybackRate     float64   `json:"playback_rate"`
	TimelineStart    float64   `json:"timeline_start"`
	TimelineDuration float64   `json:"timeline_duration"`
	MediaKind        MediaKind `json:"media_kind"`
}

// TimelineEnd returns the exclusive end of the clip on the timeline.
func (c PreviewClip) TimelineEnd() float64 {
	return c.TimelineStart + c.TimelineDuration
}

// Library is a map-backed asset provider. It satisfies the resolver
// interfaces declared by the edit and sequencer packages.
type Library map[string]Asset

// Resolve looks up an asset by resource ID.
func (l Library) Resolve(resourceID string) (Asset, bool) {
	a, ok := l[resourceID]
	return a, ok
}
