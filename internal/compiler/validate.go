package compiler

import (
	"fmt"
	"strings"

	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// Validation error codes (E100-E199)
const (
	// Project errors (E101-E109)
	ErrProjectNameEmpty = "E101" // name is required
	ErrProjectNoTracks  = "E102" // at least one track required
	ErrDuplicateTrackID = "E103" // duplicate track id
	ErrDuplicateItemID  = "E104" // duplicate item id within a track
	ErrUnknownAssetRef  = "E105" // item references an asset not in the library
	ErrItemOutOfRange   = "E106" // negative start or sub-minimum duration
	ErrItemBadRate      = "E107" // non-positive playback rate or negative volume
	ErrItemsOverlap     = "E108" // two items on one track intersect

	// Graph errors (E110-E119)
	ErrGraphNoOutput    = "E110" // graph missing output node
	ErrDuplicateNodeID  = "E111" // duplicate node id
	ErrEdgeUnknownNode  = "E112" // edge endpoint not in the node set
	ErrEdgeBadSocket    = "E113" // socket is not a recognized input
	ErrNodeUnknownAsset = "E114" // node references an asset not in the library
)

// ValidationError represents a project validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled project against structural rules.
// Returns all errors found (does not fail-fast).
func Validate(p *Project) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrProjectNameEmpty,
		})
	}

	errs = append(errs, validateTracks(p)...)

	if p.Graph != nil {
		errs = append(errs, validateGraph(p)...)
	}

	return errs
}

// validateTracks checks track and item structure, including the
// non-overlap rule every track must satisfy.
func validateTracks(p *Project) []ValidationError {
	var errs []ValidationError

	tracks := p.Model.Tracks()

	// E102: at least one track required
	if len(tracks) == 0 {
		errs = append(errs, ValidationError{
			Field:   "tracks",
			Message: "at least one track is required",
			Code:    ErrProjectNoTracks,
		})
	}

	trackIDs := make(map[string]bool)
	for i, track := range tracks {
		// E103: duplicate track id
		if trackIDs[track.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tracks[%d].id", i),
				Message: fmt.Sprintf("duplicate track id: %q", track.ID),
				Code:    ErrDuplicateTrackID,
			})
		}
		trackIDs[track.ID] = true

		itemIDs := make(map[string]bool)
		for j, item := range track.Items {
			field := fmt.Sprintf("tracks[%d].items[%d]", i, j)

			// E104: duplicate item id within a track
			if itemIDs[item.ID] {
				errs = append(errs, ValidationError{
					Field:   field + ".id",
					Message: fmt.Sprintf("duplicate item id: %q", item.ID),
					Code:    ErrDuplicateItemID,
				})
			}
			itemIDs[item.ID] = true

			// E105: asset reference must resolve
			if _, ok := p.Assets.Resolve(item.ResourceID); !ok {
				errs = append(errs, ValidationError{
					Field:   field + ".asset",
					Message: fmt.Sprintf("unknown asset: %q", item.ResourceID),
					Code:    ErrUnknownAssetRef,
				})
			}

			// E106: placement sanity
			if item.Start < 0 {
				errs = append(errs, ValidationError{
					Field:   field + ".start",
					Message: fmt.Sprintf("start must be non-negative, got %v", item.Start),
					Code:    ErrItemOutOfRange,
				})
			}
			if item.Duration < timeline.MinDuration {
				errs = append(errs, ValidationError{
					Field:   field + ".duration",
					Message: fmt.Sprintf("duration must be at least %v, got %v", timeline.MinDuration, item.Duration),
					Code:    ErrItemOutOfRange,
				})
			}

			// E107: playback parameters
			if item.PlaybackRate <= 0 {
				errs = append(errs, ValidationError{
					Field:   field + ".playback_rate",
					Message: fmt.Sprintf("playback rate must be positive, got %v", item.PlaybackRate),
					Code:    ErrItemBadRate,
				})
			}
			if item.Volume < 0 {
				errs = append(errs, ValidationError{
					Field:   field + ".volume",
					Message: fmt.Sprintf("volume must be non-negative, got %v", item.Volume),
					Code:    ErrItemBadRate,
				})
			}

			// E108: non-overlap against the items before this one
			for k := 0; k < j; k++ {
				other := track.Items[k]
				if item.Overlaps(other.Start, other.Duration) {
					errs = append(errs, ValidationError{
						Field:   field,
						Message: fmt.Sprintf("item %q overlaps item %q on track %q", item.ID, other.ID, track.ID),
						Code:    ErrItemsOverlap,
					})
				}
			}
		}
	}

	return errs
}

// validateGraph checks graph structure. The output node is a pure sink
// and does not need an entry in the node set; every other edge endpoint does.
func validateGraph(p *Project) []ValidationError {
	var errs []ValidationError
	g := p.Graph

	// E110: output required
	if strings.TrimSpace(g.Output) == "" {
		errs = append(errs, ValidationError{
			Field:   "graph.output",
			Message: "graph output node is required",
			Code:    ErrGraphNoOutput,
		})
	}

	nodeIDs := make(map[string]bool)
	for i, n := range g.Nodes {
		// E111: duplicate node id
		if nodeIDs[n.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.nodes[%d].id", i),
				Message: fmt.Sprintf("duplicate node id: %q", n.ID),
				Code:    ErrDuplicateNodeID,
			})
		}
		nodeIDs[n.ID] = true

		// E114: asset reference must resolve
		if _, ok := p.Assets.Resolve(n.ResourceID); !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.nodes[%d].asset", i),
				Message: fmt.Sprintf("unknown asset: %q", n.ResourceID),
				Code:    ErrNodeUnknownAsset,
			})
		}
	}

	for i, e := range g.Edges {
		// E112: endpoints must exist (the output sink is implicit)
		if !nodeIDs[e.From] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.edges[%d].from", i),
				Message: fmt.Sprintf("unknown node: %q", e.From),
				Code:    ErrEdgeUnknownNode,
			})
		}
		if !nodeIDs[e.To] && e.To != g.Output {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.edges[%d].to", i),
				Message: fmt.Sprintf("unknown node: %q", e.To),
				Code:    ErrEdgeUnknownNode,
			})
		}

		// E113: socket must be a recognized input
		if !validSocket(e.Socket) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("graph.edges[%d].socket", i),
				Message: fmt.Sprintf("invalid socket %q, must be %q or %q", e.Socket, sequencer.SocketVideoIn, sequencer.SocketAudioIn),
				Code:    ErrEdgeBadSocket,
			})
		}
	}

	return errs
}

// validSocket checks if a socket name is a recognized chain input.
func validSocket(s string) bool {
	return s == sequencer.SocketVideoIn || s == sequencer.SocketAudioIn
}
