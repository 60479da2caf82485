package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/cutline/internal/timeline"
)

func testLibrary() timeline.Library {
	return timeline.Library{
		"intro": {ResourceID: "intro", URL: "intro.mp4", SourceDuration: 12, Kind: timeline.MediaVideo},
		"main":  {ResourceID: "main", URL: "main.mp4", SourceDuration: 30, Kind: timeline.MediaVideo},
		"logo":  {ResourceID: "logo", URL: "logo.png", Kind: timeline.MediaImage},
		"music": {ResourceID: "music", URL: "music.mp3", SourceDuration: 120, Kind: timeline.MediaAudio},
	}
}

func TestFlat_CollapsesTracksBottomFirst(t *testing.T) {
	m := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo, Items: []timeline.Item{
			{ID: "v-main", ResourceID: "main", Start: 0, Duration: 8, PlaybackRate: 1, Volume: 1},
		}},
		timeline.Track{ID: "ov", Kind: timeline.TrackOverlay, Items: []timeline.Item{
			{ID: "ov-logo", ResourceID: "logo", Start: 2, Duration: 5, PlaybackRate: 1, Volume: 1},
		}},
		timeline.Track{ID: "a1", Kind: timeline.TrackAudio, Items: []timeline.Item{
			{ID: "a-music", ResourceID: "music", Start: 0, Duration: 6, PlaybackRate: 1, Volume: 0.8},
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)

	require.Len(t, p.Video, 2)
	require.Len(t, p.Audio, 1)
	// Bottom track first: the overlay clip comes after the video clip and
	// therefore paints on top even though it overlaps in time.
	assert.Equal(t, "v-main", p.Video[0].ID)
	assert.Equal(t, "ov-logo", p.Video[1].ID)
	assert.Equal(t, timeline.MediaImage, p.Video[1].MediaKind)
	assert.Equal(t, 0.8, p.Audio[0].Volume)
}

func TestFlat_TotalDurationIsMaxOfLanesAndFloor(t *testing.T) {
	m := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo, Items: []timeline.Item{
			{ID: "v", ResourceID: "main", Start: 4, Duration: 8, PlaybackRate: 1, Volume: 1}, // ends 12
		}},
		timeline.Track{ID: "a1", Kind: timeline.TrackAudio, Items: []timeline.Item{
			{ID: "a", ResourceID: "music", Start: 0, Duration: 8, PlaybackRate: 1, Volume: 1}, // ends 8
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)
	assert.Equal(t, 12.0, p.Duration, "max(video 12, audio 8, floor 10)")
}

func TestFlat_EmptyModelFloorsAtMinimum(t *testing.T) {
	m := timeline.NewModel(timeline.Track{ID: "v1", Kind: timeline.TrackVideo})
	p := NewFlat(testLibrary()).Sequence(m)
	assert.Equal(t, timeline.MinPreviewDuration, p.Duration)
	assert.Empty(t, p.Video)
	assert.Empty(t, p.Audio)
}

func TestFlat_MutedTrackZeroesVolume(t *testing.T) {
	m := timeline.NewModel(
		timeline.Track{ID: "a1", Kind: timeline.TrackAudio, Muted: true, Items: []timeline.Item{
			{ID: "a", ResourceID: "music", Start: 0, Duration: 5, PlaybackRate: 1, Volume: 0.9},
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)
	require.Len(t, p.Audio, 1)
	assert.Equal(t, 0.0, p.Audio[0].Volume, "muted track sequences at volume zero")
}

func TestFlat_MissingAssetDegradesToPlaceholder(t *testing.T) {
	m := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo, Items: []timeline.Item{
			{ID: "v", ResourceID: "ghost", Start: 0, Duration: 4, PlaybackRate: 1, Volume: 1},
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)
	require.Len(t, p.Video, 1)
	assert.Equal(t, "", p.Video[0].URL, "placeholder carries an empty URL")
	assert.Equal(t, timeline.MediaVideo, p.Video[0].MediaKind)
}

func TestFlat_SourceWindowScalesByRate(t *testing.T) {
	m := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo, Items: []timeline.Item{
			{ID: "v", ResourceID: "main", Start: 3, Duration: 7, SourceOffset: 2, PlaybackRate: 2, Volume: 1},
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)
	require.Len(t, p.Video, 1)
	c := p.Video[0]
	assert.Equal(t, 2.0, c.SourceStart)
	assert.Equal(t, 16.0, c.SourceEnd, "source window = offset + duration*rate")
	assert.Equal(t, 3.0, c.TimelineStart, "timeline placement carries through unchanged")
	assert.Equal(t, 7.0, c.TimelineDuration)
}

func TestFlat_SortsItemsWithinTrack(t *testing.T) {
	// Item storage order is incidental after moves and splits; the
	// sequencer must emit ascending timeline order per track.
	m := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo, Items: []timeline.Item{
			{ID: "late", ResourceID: "main", Start: 10, Duration: 2, PlaybackRate: 1, Volume: 1},
			{ID: "early", ResourceID: "main", Start: 0, Duration: 2, PlaybackRate: 1, Volume: 1},
		}},
	)

	p := NewFlat(testLibrary()).Sequence(m)
	require.Len(t, p.Video, 2)
	assert.Equal(t, "early", p.Video[0].ID)
	assert.Equal(t, "late", p.Video[1].ID)
}

func TestPreview_Job(t *testing.T) {
	p := Preview{Duration: 12}
	job := p.Job("demo")
	assert.Equal(t, "demo", job.ProjectName)
	assert.Equal(t, 12.0, job.Duration)
}

func TestNew_SelectsMode(t *testing.T) {
	lib := testLibrary()
	_, isFlat := New(ModeFlat, lib, nil).(*Flat)
	assert.True(t, isFlat)
	_, isChain := New(ModeGraphChain, lib, &Graph{}).(*Chain)
	assert.True(t, isChain)
}
