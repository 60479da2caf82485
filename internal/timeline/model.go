package timeline

import "encoding/json"

// Model is the passive timeline store: an ordered list of tracks, bottom
// track first. Track order is the visual z-order (later tracks paint on
// top) and never changes after construction.
//
// The Model exposes pure queries only. It is mutated exclusively through
// the edit engine, which obtains direct track access via TrackByID.
type Model struct {
	tracks []Track
}

// NewModel creates a model over the given tracks. The slice is copied so
// callers cannot bypass the edit engine by mutating their copy.
func NewModel(tracks ...Track) *Model {
	m := &Model{tracks: make([]Track, len(tracks))}
	copy(m.tracks, tracks)
	return m
}

// AddTrack appends a track above all existing tracks.
func (m *Model) AddTrack(t Track) {
	m.tracks = append(m.tracks, t)
}

// Tracks returns the tracks in z-order, bottom first. The returned slice
// shares item storage with the model; treat it as read-only.
func (m *Model) Tracks() []Track {
	return m.tracks
}

// TrackByID returns a pointer into the model for the given track, or nil
// if no such track exists. Mutation through the returned pointer belongs
// to the edit engine alone.
func (m *Model) TrackByID(id string) *Track {
	for i := range m.tracks {
		if m.tracks[i].ID == id {
			return &m.tracks[i]
		}
	}
	return nil
}

// ItemsOf returns a copy of the items on a track, or nil for an unknown
// track. No sort order is guaranteed.
func (m *Model) ItemsOf(trackID string) []Item {
	t := m.TrackByID(trackID)
	if t == nil {
		return nil
	}
	items := make([]Item, len(t.Items))
	copy(items, t.Items)
	return items
}

// FindItem locates an item by track and item ID.
func (m *Model) FindItem(trackID, itemID string) (Item, bool) {
	t := m.TrackByID(trackID)
	if t == nil {
		return Item{}, false
	}
	for _, it := range t.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return Item{}, false
}

// Duration computes the project duration: the latest item end across all
// tracks plus DurationPadding, floored at MinProjectDuration.
func (m *Model) Duration() float64 {
	var latest float64
	for _, t := range m.tracks {
		for _, it := range t.Items {
			if end := it.End(); end > latest {
				latest = end
			}
		}
	}
	d := latest + DurationPadding
	if d < MinProjectDuration {
		return MinProjectDuration
	}
	return d
}

// modelJSON is the wire form of a Model.
type modelJSON struct {
	Tracks []Track `json:"tracks"`
}

// MarshalJSON emits the track list in z-order.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{Tracks: m.tracks})
}

// UnmarshalJSON replaces the model's tracks with the decoded list.
func (m *Model) UnmarshalJSON(data []byte) error {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	m.tracks = mj.Tracks
	return nil
}
