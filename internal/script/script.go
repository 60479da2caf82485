package script

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/framewright/cutline/internal/edit"
)

// Script defines an ordered batch of edit commands.
type Script struct {
	// Name uniquely identifies this script.
	Name string `yaml:"name"`

	// Description explains what this script does.
	Description string `yaml:"description"`

	// Steps contains the edit commands, applied in order.
	Steps []Step `yaml:"steps"`
}

// Step is one edit command plus its expected outcome.
//
// Which fields are meaningful depends on the command; LoadScript validates
// the required ones per command so typos fail before any edit runs.
type Step struct {
	// Command is the stable command name: add_clip, move_clip, trim_clip,
	// split_clip, delete_clip, update_clip or toggle_track_mute.
	Command string `yaml:"command"`

	// Track is the target track ID. Required by every command.
	Track string `yaml:"track"`

	// Item is the target item ID. Required by everything except add_clip
	// and toggle_track_mute.
	Item string `yaml:"item,omitempty"`

	// Asset is the resource ID for add_clip.
	Asset string `yaml:"asset,omitempty"`

	// Start is the timeline position for add_clip and move_clip.
	Start float64 `yaml:"start,omitempty"`

	// At is the split position for split_clip.
	At float64 `yaml:"at,omitempty"`

	// Duration is the explicit duration for add_clip and trim_clip.
	Duration float64 `yaml:"duration,omitempty"`

	// SourceOffset is the proposed in-point for trim_clip.
	SourceOffset float64 `yaml:"source_offset,omitempty"`

	// Side selects the trimmed edge: "start" or "end".
	Side string `yaml:"side,omitempty"`

	// Patch fields for update_clip. Omitted fields stay untouched.
	Volume       *float64 `yaml:"volume,omitempty"`
	PlaybackRate *float64 `yaml:"playback_rate,omitempty"`
	PatchOffset  *float64 `yaml:"patch_source_offset,omitempty"`
	PatchLength  *float64 `yaml:"patch_duration,omitempty"`

	// Expect is the expected outcome: "applied" (the default when empty)
	// or a rejection code such as "REJECT_COLLISION".
	Expect string `yaml:"expect,omitempty"`
}

// ExpectApplied is the default expected outcome of a step.
const ExpectApplied = "applied"

// LoadScript reads and parses a script YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return ParseScript(data)
}

// ParseScript parses script YAML with strict field validation.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScript(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	return &s, nil
}

// validateScript checks that required fields are present and valid.
func validateScript(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	return nil
}

// validateStep checks per-command required fields.
func validateStep(index int, st *Step) error {
	if st.Command == "" {
		return fmt.Errorf("steps[%d]: command is required", index)
	}
	if st.Track == "" {
		return fmt.Errorf("steps[%d]: track is required", index)
	}

	needsItem := func() error {
		if st.Item == "" {
			return fmt.Errorf("steps[%d]: item is required for %s", index, st.Command)
		}
		return nil
	}

	switch st.Command {
	case "add_clip":
		if st.Asset == "" {
			return fmt.Errorf("steps[%d]: asset is required for add_clip", index)
		}
	case "move_clip":
		return needsItem()
	case "trim_clip":
		if err := needsItem(); err != nil {
			return err
		}
		if st.Side != string(edit.TrimStart) && st.Side != string(edit.TrimEnd) {
			return fmt.Errorf("steps[%d]: side must be %q or %q", index, edit.TrimStart, edit.TrimEnd)
		}
	case "split_clip", "delete_clip", "update_clip":
		return needsItem()
	case "toggle_track_mute":
		// track alone is enough
	default:
		return fmt.Errorf("steps[%d]: unknown command %q", index, st.Command)
	}
	return nil
}

// command converts a validated step into its engine command.
func (st *Step) command() edit.Command {
	switch st.Command {
	case "add_clip":
		return edit.AddClip{
			TrackID:    st.Track,
			ResourceID: st.Asset,
			Start:      st.Start,
			Duration:   st.Duration,
		}
	case "move_clip":
		return edit.MoveClip{TrackID: st.Track, ItemID: st.Item, Start: st.Start}
	case "trim_clip":
		return edit.TrimClip{
			TrackID:      st.Track,
			ItemID:       st.Item,
			SourceOffset: st.SourceOffset,
			Duration:     st.Duration,
			Side:         edit.TrimSide(st.Side),
		}
	case "split_clip":
		return edit.SplitClip{TrackID: st.Track, ItemID: st.Item, At: st.At}
	case "delete_clip":
		return edit.DeleteClip{TrackID: st.Track, ItemID: st.Item}
	case "update_clip":
		return edit.UpdateClip{
			TrackID: st.Track,
			ItemID:  st.Item,
			Patch: edit.ItemPatch{
				Volume:       st.Volume,
				PlaybackRate: st.PlaybackRate,
				SourceOffset: st.PatchOffset,
				Duration:     st.PatchLength,
			},
		}
	case "toggle_track_mute":
		return edit.ToggleTrackMute{TrackID: st.Track}
	default:
		// validateStep rejects unknown commands before execution.
		return nil
	}
}
