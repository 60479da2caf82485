package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/cutline/internal/compiler"
	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// openTestStore opens a store in a temp directory and closes it with the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cutline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProject(name string) *compiler.Project {
	return &compiler.Project{
		Name: name,
		Assets: timeline.Library{
			"intro": {
				ResourceID:     "intro",
				Name:           "Intro",
				URL:            "media/intro.mp4",
				Kind:           timeline.MediaVideo,
				SourceDuration: 8,
				Filmstrip:      []string{"f0.jpg", "f1.jpg", "f2.jpg"},
			},
			"music": {
				ResourceID:     "music",
				Name:           "Music",
				URL:            "media/music.mp3",
				Kind:           timeline.MediaAudio,
				SourceDuration: 30,
			},
		},
		Model: timeline.NewModel(
			timeline.Track{
				ID:   "v1",
				Kind: timeline.TrackVideo,
				Items: []timeline.Item{
					{ID: "c1", ResourceID: "intro", TrackID: "v1", Start: 0, Duration: 5, PlaybackRate: 1, Volume: 1},
					{ID: "c2", ResourceID: "intro", TrackID: "v1", Start: 5, Duration: 3, SourceOffset: 2, PlaybackRate: 2, Volume: 1},
				},
			},
			timeline.Track{
				ID:    "a1",
				Kind:  timeline.TrackAudio,
				Muted: true,
				Items: []timeline.Item{
					{ID: "m1", ResourceID: "music", TrackID: "a1", Start: 0, Duration: 8, PlaybackRate: 1, Volume: 0.6},
				},
			},
		),
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpen_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutline.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := sampleProject("teaser")
	require.NoError(t, s.Save(ctx, original))

	loaded, err := s.Load(ctx, "teaser")
	require.NoError(t, err)

	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Assets, loaded.Assets)
	require.Len(t, loaded.Model.Tracks(), 2)
	assert.Equal(t, original.Model.Tracks(), loaded.Model.Tracks())
	assert.Nil(t, loaded.Graph)
}

func TestSaveLoad_GraphRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := sampleProject("chained")
	original.Graph = &sequencer.Graph{
		Output: "out",
		Nodes: []sequencer.Node{
			{ID: "n1", ResourceID: "intro", Duration: 4, PlaybackRate: 1, Volume: 1},
			{ID: "n2", ResourceID: "intro", SourceOffset: 4, Duration: 4, PlaybackRate: 2, Volume: 1},
		},
		Edges: []sequencer.Edge{
			{From: "n1", To: "n2", Socket: "video-in"},
			{From: "n2", To: "out", Socket: "video-in"},
		},
	}
	require.NoError(t, s.Save(ctx, original))

	loaded, err := s.Load(ctx, "chained")
	require.NoError(t, err)
	require.NotNil(t, loaded.Graph)
	assert.Equal(t, original.Graph.Output, loaded.Graph.Output)
	assert.ElementsMatch(t, original.Graph.Nodes, loaded.Graph.Nodes)
	assert.ElementsMatch(t, original.Graph.Edges, loaded.Graph.Edges)
}

func TestSave_ReplacesExistingRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := sampleProject("evolving")
	require.NoError(t, s.Save(ctx, p))

	// Drop a clip and an asset, then save again.
	track := p.Model.TrackByID("v1")
	track.Items = track.Items[:1]
	delete(p.Assets, "music")
	p.Model.TrackByID("a1").Items = nil
	require.NoError(t, s.Save(ctx, p))

	loaded, err := s.Load(ctx, "evolving")
	require.NoError(t, err)
	assert.Len(t, loaded.Assets, 1)
	assert.Len(t, loaded.Model.TrackByID("v1").Items, 1)
	assert.Empty(t, loaded.Model.TrackByID("a1").Items)
}

func TestLoad_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleProject("alpha")))
	require.NoError(t, s.Save(ctx, sampleProject("beta")))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestDelete_CascadesAndToleratesAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleProject("doomed")))
	require.NoError(t, s.Delete(ctx, "doomed"))

	_, err := s.Load(ctx, "doomed")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "doomed"), "deleting an absent project is a no-op")
}
