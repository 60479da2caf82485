package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript_Full(t *testing.T) {
	s, err := ParseScript([]byte(`
name: rough-cut
description: Assemble the rough cut.
steps:
  - command: add_clip
    track: v1
    asset: intro
    start: 0
  - command: split_clip
    track: v1
    item: c1
    at: 2.5
  - command: move_clip
    track: v1
    item: c2
    start: 10
    expect: REJECT_COLLISION
  - command: update_clip
    track: v1
    item: c1
    volume: 0.5
    playback_rate: 2
  - command: toggle_track_mute
    track: a1
`))
	require.NoError(t, err)

	assert.Equal(t, "rough-cut", s.Name)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, "REJECT_COLLISION", s.Steps[2].Expect)
	require.NotNil(t, s.Steps[3].Volume)
	assert.Equal(t, 0.5, *s.Steps[3].Volume)
	assert.Nil(t, s.Steps[3].PatchLength)
}

func TestParseScript_RejectsUnknownFields(t *testing.T) {
	// "stpes" is a typo and must fail loudly, not silently do nothing.
	_, err := ParseScript([]byte(`
name: typo
stpes:
  - command: add_clip
    track: v1
    asset: a
`))
	require.Error(t, err)
}

func TestParseScript_ValidatesSteps(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing name",
			src:  "steps: [{command: add_clip, track: v1, asset: a}]",
			want: "name is required",
		},
		{
			name: "no steps",
			src:  "name: empty",
			want: "steps list is required",
		},
		{
			name: "missing track",
			src:  "name: x\nsteps: [{command: add_clip, asset: a}]",
			want: "track is required",
		},
		{
			name: "missing asset",
			src:  "name: x\nsteps: [{command: add_clip, track: v1}]",
			want: "asset is required",
		},
		{
			name: "missing item",
			src:  "name: x\nsteps: [{command: split_clip, track: v1, at: 2}]",
			want: "item is required",
		},
		{
			name: "bad trim side",
			src:  "name: x\nsteps: [{command: trim_clip, track: v1, item: c1, side: middle}]",
			want: "side must be",
		},
		{
			name: "unknown command",
			src:  "name: x\nsteps: [{command: explode_clip, track: v1}]",
			want: "unknown command",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadScript_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: from-file
steps:
  - command: delete_clip
    track: v1
    item: c9
    expect: REJECT_NOT_FOUND
`), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", s.Name)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
