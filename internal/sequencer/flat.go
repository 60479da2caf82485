package sequencer

import (
	"sort"

	"github.com/framewright/cutline/internal/timeline"
)

// Flat is the canonical flat multi-track composition.
type Flat struct {
	assets Resolver
}

// NewFlat creates the flat sequencer.
func NewFlat(assets Resolver) *Flat {
	return &Flat{assets: assets}
}

// Sequence collapses the model's tracks into one visual and one audio
// clip list. Tracks are visited bottom first, so within the visual list a
// later clip from a higher track paints on top of anything below it.
// Items carry their timeline placement through unchanged; the sequencer
// never re-packs them.
func (s *Flat) Sequence(m *timeline.Model) Preview {
	var video, audio []timeline.PreviewClip

	for _, tr := range m.Tracks() {
		clips := s.trackClips(tr)
		if tr.Kind.Visual() {
			video = append(video, clips...)
		} else {
			audio = append(audio, clips...)
		}
	}

	return Preview{
		Video:    video,
		Audio:    audio,
		Duration: previewDuration(video, audio),
	}
}

// trackClips maps one track's items to preview clips in ascending start
// order. Item storage order is incidental, so the copy is sorted here.
func (s *Flat) trackClips(tr timeline.Track) []timeline.PreviewClip {
	if len(tr.Items) == 0 {
		return nil
	}

	items := make([]timeline.Item, len(tr.Items))
	copy(items, tr.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Start < items[j].Start
	})

	clips := make([]timeline.PreviewClip, 0, len(items))
	for _, it := range items {
		asset := resolveOrPlaceholder(s.assets, it.ResourceID)

		volume := it.Volume
		if tr.Muted {
			volume = 0
		}

		clips = append(clips, timeline.PreviewClip{
			ID:               it.ID,
			URL:              asset.URL,
			SourceStart:      it.SourceOffset,
			SourceEnd:        it.SourceEnd(),
			Volume:           volume,
			PlaybackRate:     it.PlaybackRate,
			TimelineStart:    it.Start,
			TimelineDuration: it.Duration,
			MediaKind:        mediaKindFor(asset, tr.Kind),
		})
	}
	return clips
}
