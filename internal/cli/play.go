package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framewright/cutline/internal/playback"
	"github.com/framewright/cutline/internal/sequencer"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	File  string  // CUE project file (overrides the positional name)
	Mode  string  // composition mode
	Start float64 // initial playhead position
	Ticks int     // number of simulated ticks
	Step  float64 // wall seconds per tick
}

// TickState is one row of the simulation output.
type TickState struct {
	Tick  int       `json:"tick"`
	Time  float64   `json:"time"`
	Slots [4]string `json:"slots"`
}

// PlayResult is the JSON payload of the play command.
type PlayResult struct {
	Project  string      `json:"project"`
	Duration float64     `json:"duration"`
	Ticks    []TickState `json:"ticks"`
	EndedAt  float64     `json:"ended_at"`
	Finished bool        `json:"finished"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [project]",
		Short: "Simulate playback of a project",
		Long: `Run a headless playback simulation over a sequenced project.

Simulated media slots stand in for real players; each tick advances their
native clocks and runs a synchronization pass. The output shows the global
playhead and the state of every slot per tick, which makes boundary flips,
preloads and drift corrections visible without a UI.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runPlay(opts, name, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "CUE project file instead of a stored project")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(sequencer.ModeFlat), "composition mode (flat|chain)")
	cmd.Flags().Float64Var(&opts.Start, "start", 0, "initial playhead position in seconds")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 40, "number of simulated ticks")
	cmd.Flags().Float64Var(&opts.Step, "step", 0.25, "wall seconds per tick")

	return cmd
}

func runPlay(opts *PlayOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mode := sequencer.Mode(opts.Mode)
	if !sequencer.ValidModes[mode] {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid mode %q: must be flat or chain", opts.Mode), nil)
		return NewExitError(ExitCommandError, "invalid mode")
	}
	if opts.Ticks <= 0 || opts.Step <= 0 {
		_ = formatter.Error(ErrCodeGeneric, "--ticks and --step must be positive", nil)
		return NewExitError(ExitCommandError, "invalid simulation parameters")
	}

	p, err := resolveProject(cmd.Context(), opts.RootOptions, name, opts.File)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	preview := sequencer.New(mode, p.Assets, p.Graph).Sequence(p.Model)

	sims := [2 * playback.SlotsPerKind]*playback.SimSlot{
		playback.NewSimSlot("video-0"),
		playback.NewSimSlot("video-1"),
		playback.NewSimSlot("audio-0"),
		playback.NewSimSlot("audio-1"),
	}
	var video, audio [playback.SlotsPerKind]playback.MediaSlot
	video[0], video[1] = sims[0], sims[1]
	audio[0], audio[1] = sims[2], sims[3]

	// The simulation owns the single logical turn, so commands and ticks
	// go through the loop's queue and are drained synchronously between
	// native clock advances.
	loop := playback.NewLoop(playback.NewSynchronizer(video, audio))
	loop.Enqueue(playback.Event{Type: playback.EventPreviewChanged, Preview: &preview})
	loop.Enqueue(playback.Event{Type: playback.EventSetTime, Time: opts.Start})
	loop.Enqueue(playback.Event{Type: playback.EventSetPlaying, Playing: true})
	loop.RunPending()

	sync := loop.Synchronizer()
	result := PlayResult{Project: p.Name, Duration: preview.Duration}
	for tick := 1; tick <= opts.Ticks; tick++ {
		for _, s := range sims {
			s.Advance(opts.Step)
		}
		loop.Enqueue(playback.Event{Type: playback.EventTick})
		loop.RunPending()

		states := sync.SlotStates()
		row := TickState{Tick: tick, Time: sync.CurrentTime()}
		for i, st := range states {
			row.Slots[i] = st.String()
		}
		result.Ticks = append(result.Ticks, row)

		if !sync.Playing() {
			break // reached the end of the timeline
		}
	}
	result.EndedAt = sync.CurrentTime()
	result.Finished = !sync.Playing()

	if formatter.Format == "json" {
		return formatter.SuccessIndented(result)
	}
	printPlayText(formatter, sims, result)
	return nil
}

func printPlayText(formatter *OutputFormatter, sims [2 * playback.SlotsPerKind]*playback.SimSlot, result PlayResult) {
	fmt.Fprintf(formatter.Writer, "Playing %q (duration %.2fs)\n\n", result.Project, result.Duration)
	fmt.Fprintf(formatter.Writer, "%5s %8s  %-15s %-15s %-15s %-15s\n",
		"tick", "time", sims[0].Name(), sims[1].Name(), sims[2].Name(), sims[3].Name())

	for _, row := range result.Ticks {
		fmt.Fprintf(formatter.Writer, "%5d %8.2f  %-15s %-15s %-15s %-15s\n",
			row.Tick, row.Time, row.Slots[0], row.Slots[1], row.Slots[2], row.Slots[3])
	}

	if result.Finished {
		fmt.Fprintf(formatter.Writer, "\nReached the end at %.2fs\n", result.EndedAt)
	} else {
		fmt.Fprintf(formatter.Writer, "\nStopped simulation at %.2fs\n", result.EndedAt)
	}
}
