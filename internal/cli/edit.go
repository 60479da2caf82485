package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framewright/cutline/internal/edit"
	"github.com/framewright/cutline/internal/script"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Project string // stored project name
	File    string // CUE project file (overrides --project)
	DryRun  bool   // apply without saving back
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <script.yaml>",
		Short: "Apply a YAML edit script to a project",
		Long: `Apply an ordered batch of edit commands to a project's timeline.

Each step either applies or is rejected with a code; a step can declare
the outcome it expects. The edited project is saved back to the database
unless --dry-run is given or the project came from a file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "stored project name")
	cmd.Flags().StringVar(&opts.File, "file", "", "CUE project file instead of a stored project")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "apply the script without saving")

	return cmd
}

func runEdit(opts *EditOptions, scriptPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := script.LoadScript(scriptPath)
	if err != nil {
		_ = formatter.Error(ErrCodeScript, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading script", err)
	}
	formatter.VerboseLog("Loaded script %q: %d step(s)", s.Name, len(s.Steps))

	p, err := resolveProject(cmd.Context(), opts.RootOptions, opts.Project, opts.File)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	engine := edit.NewEngine(p.Model, p.Assets, edit.UUIDGenerator{})
	report, err := script.Run(engine, s)
	if err != nil {
		_ = formatter.Error(ErrCodeScript, err.Error(), nil)
		return WrapExitError(ExitCommandError, "running script", err)
	}

	// Persist only clean runs against stored projects.
	saved := false
	if report.OK() && !opts.DryRun && opts.File == "" {
		store, err := openStore(opts.RootOptions)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		defer store.Close()
		if err := store.Save(cmd.Context(), p); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "saving project", err)
		}
		saved = true
	}

	return outputEditReport(formatter, report, saved)
}

func outputEditReport(formatter *OutputFormatter, report *script.Report, saved bool) error {
	if formatter.Format == "json" {
		if err := formatter.SuccessIndented(report); err != nil {
			return err
		}
		if !report.OK() {
			return NewExitError(ExitFailure, fmt.Sprintf("script failed: %d step(s) mismatched", report.Failures))
		}
		return nil
	}

	if report.OK() {
		fmt.Fprintf(formatter.Writer, "✓ Script %q: %d step(s) applied\n", report.Script, len(report.Results))
	} else {
		fmt.Fprintf(formatter.Writer, "✗ Script %q: %d of %d step(s) mismatched\n",
			report.Script, report.Failures, len(report.Results))
	}

	for _, r := range report.Results {
		mark := "✓"
		if !r.Pass {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "  %s [%d] %s → %s", mark, r.Index, r.Command, r.Outcome)
		if !r.Pass {
			fmt.Fprintf(formatter.Writer, " (expected %s)", r.Expected)
		}
		fmt.Fprintln(formatter.Writer)
	}

	if saved {
		fmt.Fprintln(formatter.Writer, "\nProject saved")
	}
	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("script failed: %d step(s) mismatched", report.Failures))
	}
	return nil
}
