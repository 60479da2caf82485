package edit

import (
	"math"
	"sort"

	"github.com/framewright/cutline/internal/timeline"
)

// addClip resolves a nominal duration and places a new item. Insertion
// always succeeds: if the naive placement overlaps an existing item, the
// new item is relocated to the end of the track (append-only fallback)
// rather than inserted mid-sequence.
func (e *Engine) addClip(c AddClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}

	asset, haveAsset := e.resolveAsset(c.ResourceID)

	dur := c.Duration
	switch {
	case haveAsset && asset.Kind == timeline.MediaImage:
		// Still images have no intrinsic length; policy duration wins
		// over both the caller's and the asset's.
		dur = timeline.ImageClipDuration
	case dur <= 0 && haveAsset && asset.KnownDuration():
		dur = asset.SourceDuration
	case dur <= 0:
		dur = timeline.DefaultClipDuration
	}

	// Soft source-length clamp: a fresh item plays from offset 0 at rate
	// 1, so its duration cannot exceed the known source duration.
	if haveAsset && asset.Kind != timeline.MediaImage && asset.KnownDuration() && dur > asset.SourceDuration {
		dur = asset.SourceDuration
	}
	if dur < timeline.MinDuration {
		dur = timeline.MinDuration
	}

	start := math.Max(0, c.Start)
	if overlapsAny(tr.Items, "", start, dur) {
		start = trackEnd(tr.Items)
	}

	item := timeline.Item{
		ID:           e.ids.Generate(),
		ResourceID:   c.ResourceID,
		TrackID:      c.TrackID,
		Start:        start,
		Duration:     dur,
		SourceOffset: 0,
		PlaybackRate: 1,
		Volume:       1,
	}
	tr.Items = append(tr.Items, item)

	return Result{Command: c.Name(), ItemIDs: []string{item.ID}}, nil
}

// moveClip clamps, snaps against every other item on the track, then
// checks the resulting interval against all of them. Any remaining
// overlap rejects the move outright.
func (e *Engine) moveClip(c MoveClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	idx := itemIndex(tr.Items, c.ItemID)
	if idx < 0 {
		return Result{}, rejectNotFound(c.TrackID, c.ItemID, "no such item")
	}
	it := tr.Items[idx]

	proposed := math.Max(0, c.Start)

	// Snap either edge onto a neighbor edge within SnapEps. Every other
	// item is a snap candidate, not just interval neighbors.
	for _, other := range tr.Items {
		if other.ID == it.ID {
			continue
		}
		if math.Abs(proposed-other.End()) < timeline.SnapEps {
			proposed = other.End()
		}
		if math.Abs((proposed+it.Duration)-other.Start) < timeline.SnapEps {
			proposed = other.Start - it.Duration
		}
	}

	if overlapsAny(tr.Items, it.ID, proposed, it.Duration) {
		return Result{}, rejectCollision(c.TrackID, c.ItemID, "move overlaps another item")
	}

	tr.Items[idx].Start = proposed
	return Result{Command: c.Name(), ItemIDs: []string{it.ID}}, nil
}

// trimClip adjusts one edge of an item.
//
// Start trims translate the source-offset change into a timeline-start
// shift of (newOffset-oldOffset)/rate. If the shifted start would intrude
// into the previous neighbor, the start is clamped to that neighbor's end
// and duration/offset are recomputed so all three stay consistent: the
// clip gives back exactly what it could not take.
//
// End trims clamp the new duration so the item ends at or before the next
// neighbor's start.
func (e *Engine) trimClip(c TrimClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	idx := itemIndex(tr.Items, c.ItemID)
	if idx < 0 {
		return Result{}, rejectNotFound(c.TrackID, c.ItemID, "no such item")
	}
	it := tr.Items[idx]

	if c.SourceOffset < 0 {
		return Result{}, rejectBadArgs(c.TrackID, c.ItemID, "negative source offset")
	}
	if c.Side != TrimStart && c.Side != TrimEnd {
		return Result{}, rejectBadArgs(c.TrackID, c.ItemID, "trim side must be start or end")
	}

	switch c.Side {
	case TrimStart:
		origEnd := it.End()

		newOffset := c.SourceOffset
		newStart := it.Start + (newOffset-it.SourceOffset)/it.PlaybackRate

		// Clamp at the previous interval neighbor, then at zero.
		if prev, ok := prevNeighbor(tr.Items, it); ok && newStart < prev.End() {
			newStart = prev.End()
		}
		if newStart < 0 {
			newStart = 0
		}
		// Keep the end fixed; the clamped start dictates the rest.
		if origEnd-newStart < timeline.MinDuration {
			newStart = origEnd - timeline.MinDuration
		}
		newDur := origEnd - newStart
		newOffset = it.SourceOffset + (newStart-it.Start)*it.PlaybackRate
		if newOffset < 0 {
			// Cannot reach before the start of the source: pin the
			// offset and shift the start forward to match.
			newStart -= newOffset / it.PlaybackRate
			newDur = origEnd - newStart
			newOffset = 0
		}

		tr.Items[idx].Start = newStart
		tr.Items[idx].Duration = newDur
		tr.Items[idx].SourceOffset = newOffset

	case TrimEnd:
		newDur := c.Duration
		if next, ok := nextNeighbor(tr.Items, it); ok && it.Start+newDur > next.Start {
			newDur = next.Start - it.Start
		}
		// Soft source-length clamp when the asset duration is known.
		if asset, ok := e.resolveAsset(it.ResourceID); ok && asset.KnownDuration() && asset.Kind != timeline.MediaImage {
			if maxDur := (asset.SourceDuration - it.SourceOffset) / it.PlaybackRate; newDur > maxDur {
				newDur = maxDur
			}
		}
		if newDur < timeline.MinDuration {
			newDur = timeline.MinDuration
		}
		tr.Items[idx].Duration = newDur
	}

	return Result{Command: c.Name(), ItemIDs: []string{it.ID}}, nil
}

// splitClip cuts an item at a strictly interior point. The left fragment
// keeps the original ID; the right fragment gets a fresh ID and a source
// offset advanced by the elapsed timeline span scaled by the playback
// rate. The track is re-sorted by start afterwards since display code may
// assume ascending order.
func (e *Engine) splitClip(c SplitClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	idx := itemIndex(tr.Items, c.ItemID)
	if idx < 0 {
		return Result{}, rejectNotFound(c.TrackID, c.ItemID, "no such item")
	}
	it := tr.Items[idx]

	// Both fragments must clear the minimum duration, which also rules
	// out split points outside (start, end).
	if c.At-it.Start < timeline.MinDuration || it.End()-c.At < timeline.MinDuration {
		return Result{}, rejectSplitPoint(c.TrackID, c.ItemID, "split point outside item interior")
	}

	right := timeline.Item{
		ID:           e.ids.Generate(),
		ResourceID:   it.ResourceID,
		TrackID:      it.TrackID,
		Start:        c.At,
		Duration:     it.End() - c.At,
		SourceOffset: it.SourceOffset + (c.At-it.Start)*it.PlaybackRate,
		PlaybackRate: it.PlaybackRate,
		Volume:       it.Volume,
	}

	tr.Items[idx].Duration = c.At - it.Start
	tr.Items = append(tr.Items, right)
	sortByStart(tr.Items)

	return Result{Command: c.Name(), ItemIDs: []string{it.ID, right.ID}}, nil
}

// deleteClip removes an item by ID.
func (e *Engine) deleteClip(c DeleteClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	idx := itemIndex(tr.Items, c.ItemID)
	if idx < 0 {
		return Result{}, rejectNotFound(c.TrackID, c.ItemID, "no such item")
	}

	tr.Items = append(tr.Items[:idx], tr.Items[idx+1:]...)
	return Result{Command: c.Name(), ItemIDs: []string{c.ItemID}}, nil
}

// updateClip shallow-merges a property patch into an item. Rate and
// volume are validated; duration changes are clamped against the next
// neighbor, the remaining source material and the minimum duration so
// the merge cannot break track invariants.
func (e *Engine) updateClip(c UpdateClip) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	idx := itemIndex(tr.Items, c.ItemID)
	if idx < 0 {
		return Result{}, rejectNotFound(c.TrackID, c.ItemID, "no such item")
	}
	it := tr.Items[idx]

	if c.Patch.PlaybackRate != nil && *c.Patch.PlaybackRate <= 0 {
		return Result{}, rejectBadArgs(c.TrackID, c.ItemID, "playback rate must be positive")
	}
	if c.Patch.Volume != nil && *c.Patch.Volume < 0 {
		return Result{}, rejectBadArgs(c.TrackID, c.ItemID, "volume must be non-negative")
	}
	if c.Patch.SourceOffset != nil && *c.Patch.SourceOffset < 0 {
		return Result{}, rejectBadArgs(c.TrackID, c.ItemID, "negative source offset")
	}

	if c.Patch.Volume != nil {
		it.Volume = *c.Patch.Volume
	}
	if c.Patch.PlaybackRate != nil {
		it.PlaybackRate = *c.Patch.PlaybackRate
	}
	if c.Patch.SourceOffset != nil {
		it.SourceOffset = *c.Patch.SourceOffset
	}
	if c.Patch.Duration != nil {
		it.Duration = *c.Patch.Duration
	}

	// Clamp the merged duration: next neighbor first, then the source
	// material (same policy as an end trim), then the floor. The merged
	// offset and rate decide how much material remains.
	if next, ok := nextNeighbor(tr.Items, tr.Items[idx]); ok && it.Start+it.Duration > next.Start {
		it.Duration = next.Start - it.Start
	}
	if asset, ok := e.resolveAsset(it.ResourceID); ok && asset.KnownDuration() && asset.Kind != timeline.MediaImage {
		if maxDur := (asset.SourceDuration - it.SourceOffset) / it.PlaybackRate; it.Duration > maxDur {
			it.Duration = maxDur
		}
	}
	if it.Duration < timeline.MinDuration {
		it.Duration = timeline.MinDuration
	}

	tr.Items[idx] = it
	return Result{Command: c.Name(), ItemIDs: []string{it.ID}}, nil
}

// toggleTrackMute flips a track's mute flag.
func (e *Engine) toggleTrackMute(c ToggleTrackMute) (Result, error) {
	tr := e.model.TrackByID(c.TrackID)
	if tr == nil {
		return Result{}, rejectNotFound(c.TrackID, "", "no such track")
	}
	tr.Muted = !tr.Muted
	return Result{Command: c.Name()}, nil
}

// itemIndex scans for an item by ID. Returns -1 when absent.
func itemIndex(items []timeline.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// overlapsAny reports whether [start, start+duration) intersects any item
// other than excludeID.
func overlapsAny(items []timeline.Item, excludeID string, start, duration float64) bool {
	for _, it := range items {
		if it.ID == excludeID {
			continue
		}
		if it.Overlaps(start, duration) {
			return true
		}
	}
	return false
}

// trackEnd returns the latest end across all items, or 0 for an empty track.
func trackEnd(items []timeline.Item) float64 {
	var end float64
	for _, it := range items {
		if e := it.End(); e > end {
			end = e
		}
	}
	return end
}

// prevNeighbor finds the adjacent previous item by interval adjacency:
// the item with the greatest end at or before this item's start. Array
// position is meaningless here.
func prevNeighbor(items []timeline.Item, of timeline.Item) (timeline.Item, bool) {
	var (
		best  timeline.Item
		found bool
	)
	for _, it := range items {
		if it.ID == of.ID {
			continue
		}
		if it.End() <= of.Start+timeline.AdjacencyEps {
			if !found || it.End() > best.End() {
				best = it
				found = true
			}
		}
	}
	return best, found
}

// nextNeighbor finds the adjacent next item by interval adjacency: the
// item with the smallest start at or after this item's end.
func nextNeighbor(items []timeline.Item, of timeline.Item) (timeline.Item, bool) {
	var (
		best  timeline.Item
		found bool
	)
	for _, it := range items {
		if it.ID == of.ID {
			continue
		}
		if it.Start >= of.End()-timeline.AdjacencyEps {
			if !found || it.Start < best.Start {
				best = it
				found = true
			}
		}
	}
	return best, found
}

// sortByStart re-sorts a track's items ascending by start time.
func sortByStart(items []timeline.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Start < items[j].Start
	})
}
