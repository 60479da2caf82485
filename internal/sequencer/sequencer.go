package sequencer

import (
	"github.com/framewright/cutline/internal/timeline"
)

// Mode names a composition strategy.
type Mode string

const (
	// ModeFlat is the canonical multi-track composition.
	ModeFlat Mode = "flat"
	// ModeGraphChain is the secondary node/edge composition.
	ModeGraphChain Mode = "chain"
)

// ValidModes defines the allowed composition modes.
var ValidModes = map[Mode]bool{
	ModeFlat:       true,
	ModeGraphChain: true,
}

// Resolver supplies asset metadata. A miss is not an error: the sequencer
// synthesizes a placeholder so the rest of the timeline stays schedulable.
type Resolver interface {
	Resolve(resourceID string) (timeline.Asset, bool)
}

// Preview is the derived output of a composition pass: one z-ordered
// visual clip list, one audio clip list, and the total preview duration.
type Preview struct {
	Video    []timeline.PreviewClip `json:"video"`
	Audio    []timeline.PreviewClip `json:"audio"`
	Duration float64                `json:"duration"`
}

// Sequencer turns the timeline model into a Preview. Implementations must
// be pure: same model in, same preview out, no retained state.
type Sequencer interface {
	Sequence(m *timeline.Model) Preview
}

// New returns the sequencer for a mode. The graph is only consulted by
// ModeGraphChain and may be nil for ModeFlat.
func New(mode Mode, assets Resolver, graph *Graph) Sequencer {
	if mode == ModeGraphChain {
		return NewChain(assets, graph)
	}
	return NewFlat(assets)
}

// RenderJob is the ordered-clip description handed to the render/export
// subsystem. It is exactly the preview the player consumes; rendering is
// out of scope for this core.
type RenderJob struct {
	ProjectName string                 `json:"project_name"`
	Video       []timeline.PreviewClip `json:"video"`
	Audio       []timeline.PreviewClip `json:"audio"`
	Duration    float64                `json:"duration"`
}

// Job packages a preview for export.
func (p Preview) Job(projectName string) RenderJob {
	return RenderJob{
		ProjectName: projectName,
		Video:       p.Video,
		Audio:       p.Audio,
		Duration:    p.Duration,
	}
}

// resolveOrPlaceholder looks up an asset, degrading to a placeholder on a
// miss or a nil resolver.
func resolveOrPlaceholder(assets Resolver, resourceID string) timeline.Asset {
	if assets != nil {
		if a, ok := assets.Resolve(resourceID); ok {
			return a
		}
	}
	return timeline.PlaceholderAsset(resourceID)
}

// previewDuration applies the preview floor to the last clip end of both lists.
func previewDuration(video, audio []timeline.PreviewClip) float64 {
	d := timeline.MinPreviewDuration
	for _, c := range video {
		if end := c.TimelineEnd(); end > d {
			d = end
		}
	}
	for _, c := range audio {
		if end := c.TimelineEnd(); end > d {
			d = end
		}
	}
	return d
}

// mediaKindFor picks the clip's media kind: the asset's own kind when
// set, otherwise inferred from the owning track.
func mediaKindFor(asset timeline.Asset, trackKind timeline.TrackKind) timeline.MediaKind {
	if asset.Kind != "" {
		return asset.Kind
	}
	if trackKind == timeline.TrackAudio {
		return timeline.MediaAudio
	}
	return timeline.MediaVideo
}
