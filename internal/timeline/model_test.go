package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Duration_Empty(t *testing.T) {
	m := NewModel(Track{ID: "v1", Kind: TrackVideo})
	assert.Equal(t, MinProjectDuration, m.Duration(), "empty project floors at minimum duration")
}

func TestModel_Duration_PaddedPastFloor(t *testing.T) {
	m := NewModel(Track{
		ID:   "v1",
		Kind: TrackVideo,
		Items: []Item{
			{ID: "a", Start: 0, Duration: 10},
			{ID: "b", Start: 20, Duration: 15},
		},
	})
	assert.InDelta(t, 35+DurationPadding, m.Duration(), 1e-9)
}

func TestModel_Duration_BelowFloorIsClamped(t *testing.T) {
	m := NewModel(Track{
		ID:    "a1",
		Kind:  TrackAudio,
		Items: []Item{{ID: "a", Start: 0, Duration: 2}},
	})
	assert.Equal(t, MinProjectDuration, m.Duration())
}

func TestModel_TrackByID(t *testing.T) {
	m := NewModel(
		Track{ID: "v1", Kind: TrackVideo},
		Track{ID: "a1", Kind: TrackAudio},
	)

	tr := m.TrackByID("a1")
	require.NotNil(t, tr)
	assert.Equal(t, TrackAudio, tr.Kind)

	assert.Nil(t, m.TrackByID("missing"))
}

func TestModel_ItemsOf_ReturnsCopy(t *testing.T) {
	m := NewModel(Track{
		ID:    "v1",
		Kind:  TrackVideo,
		Items: []Item{{ID: "a", Start: 1, Duration: 2}},
	})

	items := m.ItemsOf("v1")
	require.Len(t, items, 1)
	items[0].Start = 99

	again := m.ItemsOf("v1")
	assert.Equal(t, 1.0, again[0].Start, "mutating the returned slice must not touch the model")
}

func TestModel_FindItem(t *testing.T) {
	m := NewModel(Track{
		ID:    "v1",
		Kind:  TrackVideo,
		Items: []Item{{ID: "a", Start: 0, Duration: 3}},
	})

	it, ok := m.FindItem("v1", "a")
	require.True(t, ok)
	assert.Equal(t, 3.0, it.Duration)

	_, ok = m.FindItem("v1", "nope")
	assert.False(t, ok)
	_, ok = m.FindItem("nope", "a")
	assert.False(t, ok)
}

func TestItem_Overlaps(t *testing.T) {
	it := Item{Start: 5, Duration: 5} // [5,10)

	assert.True(t, it.Overlaps(3, 5), "straddles the start")
	assert.True(t, it.Overlaps(9, 5), "straddles the end")
	assert.True(t, it.Overlaps(6, 1), "fully inside")
	assert.False(t, it.Overlaps(0, 5), "touching at the start is not overlap")
	assert.False(t, it.Overlaps(10, 5), "touching at the end is not overlap")
}

func TestItem_SourceEnd_ScalesByRate(t *testing.T) {
	it := Item{SourceOffset: 4, Duration: 10, PlaybackRate: 2}
	assert.Equal(t, 24.0, it.SourceEnd())
}

func TestTrackKind_Visual(t *testing.T) {
	assert.True(t, TrackVideo.Visual())
	assert.True(t, TrackOverlay.Visual())
	assert.False(t, TrackAudio.Visual())
}

func TestPlaceholderAsset(t *testing.T) {
	a := PlaceholderAsset("ghost")
	assert.Equal(t, "", a.URL)
	assert.Equal(t, PlaceholderSourceDuration, a.SourceDuration)
	assert.Equal(t, "ghost", a.ResourceID)
}
