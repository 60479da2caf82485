package sequencer

import (
	"log/slog"

	"github.com/framewright/cutline/internal/timeline"
)

// Input socket names recognized by the chain traversal.
const (
	SocketVideoIn = "video-in"
	SocketAudioIn = "audio-in"
)

// Node is a clip node in a graph composition. In/out points address the
// node's source asset; the node has no timeline placement of its own —
// the chain walk packs members back-to-back.
type Node struct {
	ID           string  `json:"id"`
	ResourceID   string  `json:"resource_id"`
	SourceOffset float64 `json:"source_offset"`
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playback_rate"`
	Volume       float64 `json:"volume"`
}

// Edge connects the output of From into a named input socket of To.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Socket string `json:"socket"`
}

// Graph is explicit node/edge clip data with a designated output node.
// Edge data comes from outside this core and may be malformed, including
// cyclic; traversal never assumes acyclicity.
type Graph struct {
	Output string `json:"output"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

func (g *Graph) node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// incoming finds the single edge feeding a socket of a node. Extra edges
// on the same socket are ignored beyond the first match.
func (g *Graph) incoming(to, socket string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.To == to && e.Socket == socket {
			return e, true
		}
	}
	return Edge{}, false
}

// Chain is the secondary graph-chain composition.
type Chain struct {
	assets Resolver
	graph  *Graph
}

// NewChain creates the chain sequencer over explicit graph data.
func NewChain(assets Resolver, graph *Graph) *Chain {
	return &Chain{assets: assets, graph: graph}
}

// Sequence walks backward from the output node along each input socket
// and packs the resulting chains back-to-back. The timeline model is not
// consulted: graph compositions carry their own clip data.
func (s *Chain) Sequence(_ *timeline.Model) Preview {
	if s.graph == nil || s.graph.Output == "" {
		return Preview{Duration: timeline.MinPreviewDuration}
	}

	video := s.pack(s.walk(SocketVideoIn), timeline.MediaVideo)
	audio := s.pack(s.walk(SocketAudioIn), timeline.MediaAudio)

	return Preview{
		Video:    video,
		Audio:    audio,
		Duration: previewDuration(video, audio),
	}
}

// walk accumulates the chain feeding one socket, output node excluded,
// ordered from the chain head (first to play) to the node nearest the
// output. A visited set guards the traversal: on a cycle the walk stops
// and the cyclic tail is silently dropped.
func (s *Chain) walk(socket string) []Node {
	visited := map[string]bool{s.graph.Output: true}

	var chain []Node
	current := s.graph.Output
	for {
		e, ok := s.graph.incoming(current, socket)
		if !ok {
			break
		}
		if visited[e.From] {
			slog.Warn("cycle detected in clip graph, truncating chain",
				"socket", socket,
				"node", e.From,
			)
			break
		}
		visited[e.From] = true

		n, ok := s.graph.node(e.From)
		if !ok {
			slog.Warn("edge references unknown node, truncating chain",
				"socket", socket,
				"node", e.From,
			)
			break
		}
		// Walking backward from the output, so prepend.
		chain = append([]Node{n}, chain...)
		current = e.From
	}
	return chain
}

// pack lays chain members back-to-back: each clip starts where the
// previous one ends.
func (s *Chain) pack(chain []Node, kind timeline.MediaKind) []timeline.PreviewClip {
	if len(chain) == 0 {
		return nil
	}

	clips := make([]timeline.PreviewClip, 0, len(chain))
	var cursor float64
	for _, n := range chain {
		asset := resolveOrPlaceholder(s.assets, n.ResourceID)

		rate := n.PlaybackRate
		if rate <= 0 {
			rate = 1
		}
		dur := n.Duration
		if dur <= 0 && asset.KnownDuration() {
			dur = (asset.SourceDuration - n.SourceOffset) / rate
		}
		if dur < timeline.MinDuration {
			dur = timeline.MinDuration
		}

		mediaKind := asset.Kind
		if mediaKind == "" {
			mediaKind = kind
		}

		clips = append(clips, timeline.PreviewClip{
			ID:               n.ID,
			URL:              asset.URL,
			SourceStart:      n.SourceOffset,
			SourceEnd:        n.SourceOffset + dur*rate,
			Volume:           n.Volume,
			PlaybackRate:     rate,
			TimelineStart:    cursor,
			TimelineDuration: dur,
			MediaKind:        mediaKind,
		})
		cursor += dur
	}
	return clips
}
