package edit

// Command is the closed set of edit operations. Each variant carries a
// typed payload and is dispatched through Engine.Apply. The unexported
// method seals the set: no command variants can be declared outside this
// package.
type Command interface {
	// Name returns the stable command name used in logs, scripts and
	// apply results.
	Name() string

	isCommand()
}

// TrimSide selects which edge of an item a trim adjusts.
type TrimSide string

const (
	TrimStart TrimSide = "start"
	TrimEnd   TrimSide = "end"
)

// AddClip places a new item for a resource on a track.
//
// Duration <= 0 means "resolve": use the asset's source duration when
// known, otherwise timeline.DefaultClipDuration. Still images always get
// timeline.ImageClipDuration regardless.
type AddClip struct {
	TrackID    string  `json:"track_id"`
	ResourceID string  `json:"resource_id"`
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration,omitempty"`
}

func (AddClip) Name() string { return "add_clip" }
func (AddClip) isCommand()   {}

// MoveClip proposes a new start time for an item. The engine clamps,
// snaps against every other item on the track, then rejects outright on
// any remaining collision.
type MoveClip struct {
	TrackID string  `json:"track_id"`
	ItemID  string  `json:"item_id"`
	Start   float64 `json:"start"`
}

func (MoveClip) Name() string { return "move_clip" }
func (MoveClip) isCommand()   {}

// TrimClip adjusts one edge of an item, keeping source offset, duration
// and timeline start mutually consistent and clamping at the adjacent
// neighbor.
type TrimClip struct {
	TrackID      string   `json:"track_id"`
	ItemID       string   `json:"item_id"`
	SourceOffset float64  `json:"source_offset"`
	Duration     float64  `json:"duration"`
	Side         TrimSide `json:"side"`
}

func (TrimClip) Name() string { return "trim_clip" }
func (TrimClip) isCommand()   {}

// SplitClip cuts an item in two at a timeline position strictly inside
// its interval. The original ID keeps the left part; the right part gets
// a fresh ID and a source offset advanced by elapsed time scaled by the
// playback rate.
type SplitClip struct {
	TrackID string  `json:"track_id"`
	ItemID  string  `json:"item_id"`
	At      float64 `json:"at"`
}

func (SplitClip) Name() string { return "split_clip" }
func (SplitClip) isCommand()   {}

// DeleteClip removes an item from its track.
type DeleteClip struct {
	TrackID string `json:"track_id"`
	ItemID  string `json:"item_id"`
}

func (DeleteClip) Name() string { return "delete_clip" }
func (DeleteClip) isCommand()   {}

// ItemPatch is a partial property update. Nil fields are left untouched.
type ItemPatch struct {
	Volume       *float64 `json:"volume,omitempty"`
	PlaybackRate *float64 `json:"playback_rate,omitempty"`
	SourceOffset *float64 `json:"source_offset,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
}

// UpdateClip shallow-merges a patch into an item. Geometry-affecting
// fields are clamped so track invariants survive the merge.
type UpdateClip struct {
	TrackID string    `json:"track_id"`
	ItemID  string    `json:"item_id"`
	Patch   ItemPatch `json:"patch"`
}

func (UpdateClip) Name() string { return "update_clip" }
func (UpdateClip) isCommand()   {}

// ToggleTrackMute flips a track's mute flag. Muted tracks sequence their
// clips with volume zero.
type ToggleTrackMute struct {
	TrackID string `json:"track_id"`
}

func (ToggleTrackMute) Name() string { return "toggle_track_mute" }
func (ToggleTrackMute) isCommand()   {}
