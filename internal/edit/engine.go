package edit

import (
	"log/slog"

	"github.com/framewright/cutline/internal/timeline"
)

// AssetResolver supplies asset metadata to operations that need a source
// duration (add, trim clamping). timeline.Library satisfies it.
type AssetResolver interface {
	Resolve(resourceID string) (timeline.Asset, bool)
}

// Result describes a successfully applied command.
type Result struct {
	// Command is the stable name of the applied command.
	Command string `json:"command"`

	// ItemIDs lists the items the command created or touched, in a
	// command-specific order (for split: left then right).
	ItemIDs []string `json:"item_ids,omitempty"`
}

// Engine owns all mutation of a timeline model.
//
// Apply is a total function: it either commits the command fully and
// returns a Result, or leaves the model unchanged and returns a
// *Rejection. Nothing in the engine is fatal; a malformed edit simply
// fails to apply.
//
// Thread-safety: the engine expects a single logical writer. Callers on
// multiple goroutines must serialize through an event loop.
type Engine struct {
	model  *timeline.Model
	assets AssetResolver
	ids    IDGenerator
}

// NewEngine creates an engine over the given model. assets may resolve to
// nothing for every ID; operations then fall back to policy defaults.
func NewEngine(model *timeline.Model, assets AssetResolver, ids IDGenerator) *Engine {
	return &Engine{model: model, assets: assets, ids: ids}
}

// Model returns the model the engine mutates. Read access only; every
// write goes through Apply.
func (e *Engine) Model() *timeline.Model {
	return e.model
}

// Apply dispatches a command to its operation. On rejection the returned
// error is a *Rejection and the model is unchanged.
func (e *Engine) Apply(cmd Command) (Result, error) {
	var (
		res Result
		err error
	)

	switch c := cmd.(type) {
	case AddClip:
		res, err = e.addClip(c)
	case MoveClip:
		res, err = e.moveClip(c)
	case TrimClip:
		res, err = e.trimClip(c)
	case SplitClip:
		res, err = e.splitClip(c)
	case DeleteClip:
		res, err = e.deleteClip(c)
	case UpdateClip:
		res, err = e.updateClip(c)
	case ToggleTrackMute:
		res, err = e.toggleTrackMute(c)
	default:
		err = rejectBadArgs("", "", "unknown command")
	}

	if err != nil {
		slog.Debug("command rejected",
			"command", cmd.Name(),
			"error", err,
		)
		return Result{}, err
	}

	slog.Debug("command applied",
		"command", res.Command,
		"items", res.ItemIDs,
	)
	return res, nil
}

// resolveAsset returns the asset for a resource, or ok=false when the
// provider has no entry. Operations decide their own fallback policy.
func (e *Engine) resolveAsset(resourceID string) (timeline.Asset, bool) {
	if e.assets == nil {
		return timeline.Asset{}, false
	}
	return e.assets.Resolve(resourceID)
}
