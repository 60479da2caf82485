package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/cutline/internal/timeline"
)

func newTestEngine(t *testing.T, assets timeline.Library, ids ...string) *Engine {
	t.Helper()
	if ids == nil {
		ids = []string{"clip-1", "clip-2", "clip-3", "clip-4", "clip-5", "clip-6"}
	}
	model := timeline.NewModel(
		timeline.Track{ID: "v1", Kind: timeline.TrackVideo},
		timeline.Track{ID: "a1", Kind: timeline.TrackAudio},
	)
	return NewEngine(model, assets, NewFixedGenerator(ids...))
}

func mustApply(t *testing.T, e *Engine, cmd Command) Result {
	t.Helper()
	res, err := e.Apply(cmd)
	require.NoError(t, err, "command %s should apply", cmd.Name())
	return res
}

func trackItems(t *testing.T, e *Engine, trackID string) []timeline.Item {
	t.Helper()
	items := e.Model().ItemsOf(trackID)
	require.NotNil(t, items)
	return items
}

func TestAddClip_ResolvesDurationFromAsset(t *testing.T) {
	lib := timeline.Library{
		"intro": {ResourceID: "intro", URL: "intro.mp4", SourceDuration: 12.5, Kind: timeline.MediaVideo},
	}
	e := newTestEngine(t, lib)

	res := mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "intro", Start: 0})
	require.Len(t, res.ItemIDs, 1)

	it, ok := e.Model().FindItem("v1", res.ItemIDs[0])
	require.True(t, ok)
	assert.Equal(t, 12.5, it.Duration)
	assert.Equal(t, 1.0, it.PlaybackRate)
	assert.Equal(t, 1.0, it.Volume)
	assert.Equal(t, 0.0, it.SourceOffset)
}

func TestAddClip_FallsBackToDefaultDuration(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})

	res := mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "ghost", Start: 2})
	it, _ := e.Model().FindItem("v1", res.ItemIDs[0])
	assert.Equal(t, timeline.DefaultClipDuration, it.Duration)
}

func TestAddClip_ImagesGetPolicyDuration(t *testing.T) {
	lib := timeline.Library{
		"logo": {ResourceID: "logo", URL: "logo.png", SourceDuration: 999, Kind: timeline.MediaImage},
	}
	e := newTestEngine(t, lib)

	// Explicit duration and source duration are both ignored for stills.
	res := mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "logo", Start: 0, Duration: 42})
	it, _ := e.Model().FindItem("v1", res.ItemIDs[0])
	assert.Equal(t, timeline.ImageClipDuration, it.Duration)
}

func TestAddClip_OverlapRelocatesToTrackEnd(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})

	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 8, Duration: 5})

	// Naive placement [3,8) overlaps the first item; fallback appends at
	// the end of all existing items, never mid-sequence.
	res := mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "c", Start: 3, Duration: 5})
	it, _ := e.Model().FindItem("v1", res.ItemIDs[0])
	assert.Equal(t, 13.0, it.Start)
	assertNoOverlap(t, trackItems(t, e, "v1"))
}

func TestAddClip_NegativeStartClamped(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	res := mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: -3, Duration: 4})
	it, _ := e.Model().FindItem("v1", res.ItemIDs[0])
	assert.Equal(t, 0.0, it.Start)
}

func TestAddClip_UnknownTrackRejected(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	_, err := e.Apply(AddClip{TrackID: "nope", ResourceID: "a", Start: 0})
	assert.Equal(t, RejectNotFound, CodeOf(err))
}

func TestMoveClip_RejectsOverlap(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5}) // clip-1 [0,5)
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 5, Duration: 5}) // clip-2 [5,10)

	before := trackItems(t, e, "v1")

	// [3,8) overlaps clip-1: rejected, state unchanged.
	_, err := e.Apply(MoveClip{TrackID: "v1", ItemID: "clip-2", Start: 3})
	require.Error(t, err)
	assert.Equal(t, RejectCollision, CodeOf(err))
	assert.True(t, IsRejection(err))
	assert.Equal(t, before, trackItems(t, e, "v1"), "rejected move must leave state unchanged")
}

func TestMoveClip_SnapsToNeighborEnd(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5})   // ends at 5.0
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 20, Duration: 5})  // clip-2

	mustApply(t, e, MoveClip{TrackID: "v1", ItemID: "clip-2", Start: 5.15})
	it, _ := e.Model().FindItem("v1", "clip-2")
	assert.Equal(t, 5.0, it.Start, "start within SnapEps of a neighbor end snaps exactly onto it")
}

func TestMoveClip_SnapsEndToNeighborStart(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 10, Duration: 5}) // starts at 10
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 20, Duration: 4}) // clip-2

	// Proposed end 5.1+4 = 9.1... use 5.9: end 9.9, within 0.2 of 10.
	mustApply(t, e, MoveClip{TrackID: "v1", ItemID: "clip-2", Start: 5.9})
	it, _ := e.Model().FindItem("v1", "clip-2")
	assert.InDelta(t, 6.0, it.Start, 1e-9, "end snaps to the neighbor start")
}

func TestMoveClip_ClampsNegativeStart(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 5, Duration: 3})

	mustApply(t, e, MoveClip{TrackID: "v1", ItemID: "clip-1", Start: -7})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 0.0, it.Start)
}

func TestTrimClip_StartClampsAtPreviousNeighbor(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 3}) // prev ends at 3
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 5, Duration: 5}) // clip-2 [5,10) offset 0

	// Give clip-2 a source offset so there is room to trim leftwards.
	off := 4.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-2", Patch: ItemPatch{SourceOffset: &off}})

	// Asking for offset 0 implies start shift of -4 => start 1, which
	// intrudes into the previous neighbor. Clamp at 3 and recompute.
	mustApply(t, e, TrimClip{TrackID: "v1", ItemID: "clip-2", SourceOffset: 0, Duration: 9, Side: TrimStart})

	it, _ := e.Model().FindItem("v1", "clip-2")
	assert.Equal(t, 3.0, it.Start, "start clamps to the previous neighbor's end")
	assert.Equal(t, 7.0, it.Duration, "duration = original end - clamped start")
	assert.Equal(t, 2.0, it.SourceOffset, "offset gives back exactly what the start could not take")
	assertNoOverlap(t, trackItems(t, e, "v1"))
}

func TestTrimClip_StartScalesShiftByRate(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 10, Duration: 6}) // clip-1

	rate, off := 2.0, 8.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{PlaybackRate: &rate, SourceOffset: &off}})

	// Offset 8 -> 4 at rate 2 shifts the start by (4-8)/2 = -2 seconds.
	mustApply(t, e, TrimClip{TrackID: "v1", ItemID: "clip-1", SourceOffset: 4, Duration: 8, Side: TrimStart})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.InDelta(t, 8.0, it.Start, 1e-9)
	assert.InDelta(t, 8.0, it.Duration, 1e-9, "end stays fixed at 16")
	assert.InDelta(t, 4.0, it.SourceOffset, 1e-9)
}

func TestTrimClip_EndClampsAtNextNeighbor(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 4}) // clip-1
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 6, Duration: 4}) // next starts at 6

	mustApply(t, e, TrimClip{TrackID: "v1", ItemID: "clip-1", SourceOffset: 0, Duration: 9, Side: TrimEnd})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 6.0, it.Duration, "end clamps so start+duration <= next neighbor start")
	assertNoOverlap(t, trackItems(t, e, "v1"))
}

func TestTrimClip_EndRespectsSourceLength(t *testing.T) {
	lib := timeline.Library{
		"short": {ResourceID: "short", URL: "s.mp4", SourceDuration: 5, Kind: timeline.MediaVideo},
	}
	e := newTestEngine(t, lib)
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "short", Start: 0})

	mustApply(t, e, TrimClip{TrackID: "v1", ItemID: "clip-1", SourceOffset: 0, Duration: 30, Side: TrimEnd})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 5.0, it.Duration, "duration clamps to the known source length")
}

func TestTrimClip_DurationNeverBelowMinimum(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5})

	mustApply(t, e, TrimClip{TrackID: "v1", ItemID: "clip-1", SourceOffset: 0, Duration: 0.01, Side: TrimEnd})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, timeline.MinDuration, it.Duration)
}

func TestSplitClip_PreservesDurationAndInterval(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 2, Duration: 8}) // [2,10)

	res := mustApply(t, e, SplitClip{TrackID: "v1", ItemID: "clip-1", At: 6})
	require.Len(t, res.ItemIDs, 2)

	left, _ := e.Model().FindItem("v1", res.ItemIDs[0])
	right, _ := e.Model().FindItem("v1", res.ItemIDs[1])

	assert.Equal(t, "clip-1", left.ID, "left fragment keeps the original ID")
	assert.Equal(t, 2.0, left.Start)
	assert.Equal(t, 4.0, left.Duration)
	assert.Equal(t, 6.0, right.Start)
	assert.Equal(t, 4.0, right.Duration)
	assert.InDelta(t, 8.0, left.Duration+right.Duration, 1e-9, "split preserves total duration")
	assertNoOverlap(t, trackItems(t, e, "v1"))
}

func TestSplitClip_SourceOffsetScalesByRate(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 10})

	rate, off := 2.0, 4.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{PlaybackRate: &rate, SourceOffset: &off}})

	res := mustApply(t, e, SplitClip{TrackID: "v1", ItemID: "clip-1", At: 4})
	right, _ := e.Model().FindItem("v1", res.ItemIDs[1])
	assert.Equal(t, 12.0, right.SourceOffset, "offset advances by elapsed time scaled by rate: 4 + 4*2")
	assert.Equal(t, 2.0, right.PlaybackRate)
}

func TestSplitClip_ResortsTrackByStart(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 10, Duration: 4})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 0, Duration: 4})

	mustApply(t, e, SplitClip{TrackID: "v1", ItemID: "clip-2", At: 2})

	items := trackItems(t, e, "v1")
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Start, items[i].Start, "items ascend by start after split")
	}
}

func TestSplitClip_RejectsOutOfRangePoints(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 2, Duration: 8})

	for _, at := range []float64{1, 2, 10, 15, 2.05, 9.95} {
		_, err := e.Apply(SplitClip{TrackID: "v1", ItemID: "clip-1", At: at})
		assert.Equal(t, RejectSplitPoint, CodeOf(err), "split at %v must be rejected", at)
	}
	assert.Len(t, trackItems(t, e, "v1"), 1, "rejected splits leave the track unchanged")
}

func TestDeleteClip(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5})

	mustApply(t, e, DeleteClip{TrackID: "v1", ItemID: "clip-1"})
	assert.Empty(t, trackItems(t, e, "v1"))

	_, err := e.Apply(DeleteClip{TrackID: "v1", ItemID: "clip-1"})
	assert.Equal(t, RejectNotFound, CodeOf(err))
}

func TestUpdateClip_ValidatesAndClamps(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 4})
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "b", Start: 6, Duration: 4})

	badRate := 0.0
	_, err := e.Apply(UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{PlaybackRate: &badRate}})
	assert.Equal(t, RejectBadArgs, CodeOf(err))

	vol, dur := 0.5, 20.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{Volume: &vol, Duration: &dur}})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 0.5, it.Volume)
	assert.Equal(t, 6.0, it.Duration, "patched duration clamps at the next neighbor")
	assertNoOverlap(t, trackItems(t, e, "v1"))
}

func TestUpdateClip_DurationRespectsSourceLength(t *testing.T) {
	lib := timeline.Library{
		"short": {ResourceID: "short", URL: "s.mp4", SourceDuration: 5, Kind: timeline.MediaVideo},
	}
	e := newTestEngine(t, lib)
	mustApply(t, e, AddClip{TrackID: "v1", ResourceID: "short", Start: 0})

	// Patching offset and duration together must not push the source
	// window past the known material, same as an end trim.
	off, dur := 2.0, 10.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{SourceOffset: &off, Duration: &dur}})
	it, _ := e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 3.0, it.Duration, "duration clamps to the remaining source material")
	assert.InDelta(t, 5.0, it.SourceEnd(), 1e-9)

	// A faster rate consumes material sooner; the clamp tracks it.
	rate := 2.0
	mustApply(t, e, UpdateClip{TrackID: "v1", ItemID: "clip-1", Patch: ItemPatch{PlaybackRate: &rate, Duration: &dur}})
	it, _ = e.Model().FindItem("v1", "clip-1")
	assert.Equal(t, 1.5, it.Duration, "remaining material over rate: (5-2)/2")
}

func TestToggleTrackMute(t *testing.T) {
	e := newTestEngine(t, timeline.Library{})

	mustApply(t, e, ToggleTrackMute{TrackID: "a1"})
	assert.True(t, e.Model().TrackByID("a1").Muted)
	mustApply(t, e, ToggleTrackMute{TrackID: "a1"})
	assert.False(t, e.Model().TrackByID("a1").Muted)
}

// TestNoOverlapInvariant drives a long mixed command sequence and checks
// that no two item intervals on any track ever overlap.
func TestNoOverlapInvariant(t *testing.T) {
	e := newTestEngine(t, timeline.Library{},
		"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10")

	cmds := []Command{
		AddClip{TrackID: "v1", ResourceID: "a", Start: 0, Duration: 5},
		AddClip{TrackID: "v1", ResourceID: "b", Start: 5, Duration: 5},
		AddClip{TrackID: "v1", ResourceID: "c", Start: 3, Duration: 5}, // relocated
		MoveClip{TrackID: "v1", ItemID: "c3", Start: 11},
		SplitClip{TrackID: "v1", ItemID: "c1", At: 2.5},
		MoveClip{TrackID: "v1", ItemID: "c2", Start: 4},   // rejected
		MoveClip{TrackID: "v1", ItemID: "c4", Start: 16},
		TrimClip{TrackID: "v1", ItemID: "c2", SourceOffset: 0, Duration: 50, Side: TrimEnd},
		AddClip{TrackID: "a1", ResourceID: "d", Start: 0, Duration: 8},
		SplitClip{TrackID: "a1", ItemID: "c5", At: 4},
		DeleteClip{TrackID: "v1", ItemID: "c2"},
		AddClip{TrackID: "v1", ResourceID: "e", Start: 5, Duration: 6},
	}

	for _, cmd := range cmds {
		_, err := e.Apply(cmd) // rejections are fine; overlaps are not
		if err != nil {
			require.True(t, IsRejection(err), "only rejections may surface, got %v", err)
		}
		for _, tr := range e.Model().Tracks() {
			assertNoOverlap(t, tr.Items)
		}
	}
}

// assertNoOverlap fails if any two item intervals intersect.
func assertNoOverlap(t *testing.T, items []timeline.Item) {
	t.Helper()
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			assert.False(t, a.Overlaps(b.Start, b.Duration),
				"items %s [%v,%v) and %s [%v,%v) overlap",
				a.ID, a.Start, a.End(), b.ID, b.Start, b.End())
		}
	}
}
