package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// SequenceOptions holds flags for the sequence command.
type SequenceOptions struct {
	*RootOptions
	File   string // CUE project file (overrides the positional name)
	Mode   string // composition mode
	Job    bool   // emit a render job instead of a bare preview
	Output string // output file path
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SequenceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sequence [project]",
		Short: "Sequence a project into a preview",
		Long: `Run the composition pass over a project's timeline and print the
resulting preview: the ordered video and audio clip lists the player
consumes. Chain mode composes from the project's clip graph instead of
the tracks.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runSequence(opts, name, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "CUE project file instead of a stored project")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(sequencer.ModeFlat), "composition mode (flat|chain)")
	cmd.Flags().BoolVar(&opts.Job, "job", false, "emit a render job instead of a bare preview")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSequence(opts *SequenceOptions, name string, cmd *cobra.Command) error {
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

	p, err := resolveProject(cmd.Context(), opts.RootOptions, name, opts.File)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	seq := sequencer.New(mode, p.Assets, p.Graph)
	preview := seq.Sequence(p.Model)
	formatter.VerboseLog("Sequenced %q in %s mode: %d video, %d audio clip(s)",
		p.Name, mode, len(preview.Video), len(preview.Audio))

	var payload any = preview
	if opts.Job {
		payload = preview.Job(p.Name)
	}

	if opts.Output != "" {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err == nil {
			err = os.WriteFile(opts.Output, data, 0644)
		}
		if err != nil {
			_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.SuccessIndented(payload)
	}
	printPreviewText(formatter, p.Name, mode, preview)
	return nil
}

func printPreviewText(formatter *OutputFormatter, name string, mode sequencer.Mode, p sequencer.Preview) {
	fmt.Fprintf(formatter.Writer, "Preview of %q (%s mode), duration %.2fs\n", name, mode, p.Duration)

	printLane := func(label string, clips []timeline.PreviewClip) {
		fmt.Fprintf(formatter.Writer, "\n%s (%d clip(s)):\n", label, len(clips))
		for _, c := range clips {
			fmt.Fprintf(formatter.Writer, "  [%7.2f → %7.2f] %s  src %.2f..%.2f rate %.2g vol %.2g\n",
				c.TimelineStart, c.TimelineEnd(), c.ID,
				c.SourceStart, c.SourceEnd, c.PlaybackRate, c.Volume)
		}
	}
	printLane("video", p.Video)
	printLane("audio", p.Audio)
}
