package script

import (
	"log/slog"

	"github.com/framewright/cutline/internal/edit"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	// Index is the step's position in the script, starting at 0.
	Index int `json:"index"`

	// Command is the step's command name.
	Command string `json:"command"`

	// Outcome is "applied" or the rejection code the engine returned.
	Outcome string `json:"outcome"`

	// Expected is the outcome the step declared.
	Expected string `json:"expected"`

	// ItemIDs lists the items an applied command created or touched.
	ItemIDs []string `json:"item_ids,omitempty"`

	// Detail carries the rejection message when a step was refused.
	Detail string `json:"detail,omitempty"`

	// Pass reports whether the outcome matched the expectation.
	Pass bool `json:"pass"`
}

// Report summarizes a script run.
type Report struct {
	Script   string       `json:"script"`
	Results  []StepResult `json:"results"`
	Failures int          `json:"failures"`
}

// OK reports whether every step matched its expected outcome.
func (r *Report) OK() bool {
	return r.Failures == 0
}

// Run applies every step of a script to the engine in order.
//
// A step whose outcome differs from its expectation counts as a failure
// but does not stop the run: rejections leave the model unchanged, so
// later steps still operate on well-defined state. An engine error that
// is not a rejection aborts the run.
func Run(engine *edit.Engine, s *Script) (*Report, error) {
	report := &Report{Script: s.Name}

	for i, step := range s.Steps {
		expected := step.Expect
		if expected == "" {
			expected = ExpectApplied
		}

		sr := StepResult{
			Index:    i,
			Command:  step.Command,
			Expected: expected,
		}

		res, err := engine.Apply(step.command())
		switch {
		case err == nil:
			sr.Outcome = ExpectApplied
			sr.ItemIDs = res.ItemIDs
		case edit.IsRejection(err):
			sr.Outcome = string(edit.CodeOf(err))
			sr.Detail = err.Error()
		default:
			return nil, err
		}

		sr.Pass = sr.Outcome == expected
		if !sr.Pass {
			report.Failures++
			slog.Warn("script step outcome mismatch",
				"script", s.Name,
				"step", i,
				"command", step.Command,
				"expected", expected,
				"outcome", sr.Outcome,
			)
		}

		report.Results = append(report.Results, sr)
	}

	slog.Info("script run finished",
		"script", s.Name,
		"steps", len(report.Results),
		"failures", report.Failures,
	)
	return report, nil
}
