package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// Project is the compiled form of a CUE project definition: the asset
// library, the initial timeline model, and the optional clip graph for
// chain compositions.
type Project struct {
	Name   string           `json:"name"`
	Assets timeline.Library `json:"assets"`
	Model  *timeline.Model  `json:"model"`
	Graph  *sequencer.Graph `json:"graph,omitempty"`
}

// CompileProject parses a CUE value into a Project.
//
// The CUE value should be the project struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`project: { name: "demo", ... }`)
//	p, err := CompileProject(v.LookupPath(cue.ParsePath("project")))
func CompileProject(v cue.Value) (*Project, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Project{Assets: timeline.Library{}}

	// Parse name (required). Display strings are NFC-normalized so
	// differently composed inputs compare and dedupe consistently.
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	p.Name = norm.NFC.String(name)

	// Parse assets (optional, can be empty)
	if err := parseAssets(v, p.Assets); err != nil {
		return nil, err
	}

	// Parse tracks (required, at least one)
	tracks, err := parseTracks(v)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, &CompileError{
			Field:   "tracks",
			Message: "at least one track is required",
			Pos:     v.Pos(),
		}
	}
	p.Model = timeline.NewModel(tracks...)

	// Parse graph (optional) - only consulted by chain compositions
	graphVal := v.LookupPath(cue.ParsePath("graph"))
	if graphVal.Exists() {
		graph, err := parseGraph(graphVal)
		if err != nil {
			return nil, err
		}
		p.Graph = graph
	}

	return p, nil
}

// parseAssets extracts the asset library. Struct labels are the resource IDs.
func parseAssets(v cue.Value, lib timeline.Library) error {
	assetsVal := v.LookupPath(cue.ParsePath("assets"))
	if !assetsVal.Exists() {
		return nil // assets are optional
	}

	iter, err := assetsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		resourceID := iter.Label()
		av := iter.Value()

		asset := timeline.Asset{ResourceID: resourceID}

		asset.Name, err = stringField(av, "name", resourceID)
		if err != nil {
			return err
		}
		asset.Name = norm.NFC.String(asset.Name)

		asset.URL, err = stringField(av, "url", "")
		if err != nil {
			return err
		}

		kind, err := stringField(av, "kind", string(timeline.MediaVideo))
		if err != nil {
			return err
		}
		asset.Kind, err = mediaKind(av, kind)
		if err != nil {
			return err
		}

		asset.SourceDuration, err = floatField(av, "duration", 0)
		if err != nil {
			return err
		}

		asset.Filmstrip, err = stringListField(av, "filmstrip")
		if err != nil {
			return err
		}

		lib[resourceID] = asset
	}

	return nil
}

// parseTracks extracts the track list, bottom track first.
func parseTracks(v cue.Value) ([]timeline.Track, error) {
	tracksVal := v.LookupPath(cue.ParsePath("tracks"))
	if !tracksVal.Exists() {
		return nil, nil
	}

	iter, err := tracksVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var tracks []timeline.Track
	for i := 0; iter.Next(); i++ {
		tv := iter.Value()

		track := timeline.Track{}

		track.ID, err = stringField(tv, "id", "")
		if err != nil {
			return nil, err
		}
		if track.ID == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tracks[%d].id", i),
				Message: "track id is required",
				Pos:     tv.Pos(),
			}
		}

		kind, err := stringField(tv, "kind", "")
		if err != nil {
			return nil, err
		}
		track.Kind, err = trackKind(tv, kind)
		if err != nil {
			return nil, err
		}

		mutedVal := tv.LookupPath(cue.ParsePath("muted"))
		if mutedVal.Exists() {
			track.Muted, err = mutedVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		track.Items, err = parseItems(tv, track.ID)
		if err != nil {
			return nil, err
		}

		tracks = append(tracks, track)
	}

	return tracks, nil
}

// parseItems extracts the initial items of one track.
func parseItems(tv cue.Value, trackID string) ([]timeline.Item, error) {
	itemsVal := tv.LookupPath(cue.ParsePath("items"))
	if !itemsVal.Exists() {
		return nil, nil
	}

	iter, err := itemsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var items []timeline.Item
	for i := 0; iter.Next(); i++ {
		iv := iter.Value()

		item := timeline.Item{TrackID: trackID}

		item.ID, err = stringField(iv, "id", "")
		if err != nil {
			return nil, err
		}
		if item.ID == "" {
			// Deterministic fallback so project files can omit IDs.
			item.ID = fmt.Sprintf("%s-item-%d", trackID, i)
		}

		item.ResourceID, err = stringField(iv, "asset", "")
		if err != nil {
			return nil, err
		}
		if item.ResourceID == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("items[%d].asset", i),
				Message: "item asset reference is required",
				Pos:     iv.Pos(),
			}
		}

		item.Start, err = floatField(iv, "start", 0)
		if err != nil {
			return nil, err
		}
		item.Duration, err = floatField(iv, "duration", timeline.DefaultClipDuration)
		if err != nil {
			return nil, err
		}
		item.SourceOffset, err = floatField(iv, "source_offset", 0)
		if err != nil {
			return nil, err
		}
		item.PlaybackRate, err = floatField(iv, "playback_rate", 1)
		if err != nil {
			return nil, err
		}
		item.Volume, err = floatField(iv, "volume", 1)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// parseGraph extracts the optional clip graph. Node labels are node IDs.
func parseGraph(v cue.Value) (*sequencer.Graph, error) {
	g := &sequencer.Graph{}

	output, err := stringField(v, "output", "")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, &CompileError{
			Field:   "graph.output",
			Message: "graph output node is required",
			Pos:     v.Pos(),
		}
	}
	g.Output = output

	nodesVal := v.LookupPath(cue.ParsePath("nodes"))
	if nodesVal.Exists() {
		iter, err := nodesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			nv := iter.Value()
			node := sequencer.Node{ID: iter.Label()}

			node.ResourceID, err = stringField(nv, "asset", "")
			if err != nil {
				return nil, err
			}
			node.SourceOffset, err = floatField(nv, "source_offset", 0)
			if err != nil {
				return nil, err
			}
			node.Duration, err = floatField(nv, "duration", 0)
			if err != nil {
				return nil, err
			}
			node.PlaybackRate, err = floatField(nv, "playback_rate", 1)
			if err != nil {
				return nil, err
			}
			node.Volume, err = floatField(nv, "volume", 1)
			if err != nil {
				return nil, err
			}

			g.Nodes = append(g.Nodes, node)
		}
	}

	edgesVal := v.LookupPath(cue.ParsePath("edges"))
	if edgesVal.Exists() {
		iter, err := edgesVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			ev := iter.Value()
			edge := sequencer.Edge{}

			edge.From, err = stringField(ev, "from", "")
			if err != nil {
				return nil, err
			}
			edge.To, err = stringField(ev, "to", "")
			if err != nil {
				return nil, err
			}
			edge.Socket, err = stringField(ev, "socket", "")
			if err != nil {
				return nil, err
			}
			if edge.From == "" || edge.To == "" || edge.Socket == "" {
				return nil, &CompileError{
					Field:   fmt.Sprintf("graph.edges[%d]", i),
					Message: "edge requires from, to, and socket",
					Pos:     ev.Pos(),
				}
			}

			g.Edges = append(g.Edges, edge)
		}
	}

	return g, nil
}

// mediaKind converts a kind string, rejecting unknown values with position info.
func mediaKind(v cue.Value, kind string) (timeline.MediaKind, error) {
	switch timeline.MediaKind(kind) {
	case timeline.MediaVideo, timeline.MediaImage, timeline.MediaAudio:
		return timeline.MediaKind(kind), nil
	default:
		return "", &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unsupported media kind: %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// trackKind converts a track kind string, rejecting unknown values.
func trackKind(v cue.Value, kind string) (timeline.TrackKind, error) {
	switch timeline.TrackKind(kind) {
	case timeline.TrackVideo, timeline.TrackAudio, timeline.TrackOverlay:
		return timeline.TrackKind(kind), nil
	default:
		return "", &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unsupported track kind: %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// stringField reads an optional string field, returning def when absent.
func stringField(v cue.Value, path, def string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return def, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// floatField reads an optional numeric field, returning def when absent.
func floatField(v cue.Value, path string, def float64) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return def, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

// stringListField reads an optional list of strings.
func stringListField(v cue.Value, path string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}
