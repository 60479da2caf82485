package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/framewright/cutline/internal/compiler"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Save   bool   // persist to the project database
}

// CompileSummary is the success payload of the compile command.
type CompileSummary struct {
	Project *compiler.Project `json:"project"`
	Stats   CompileStats      `json:"stats"`
}

// CompileStats holds summary statistics.
type CompileStats struct {
	Assets   int  `json:"assets"`
	Tracks   int  `json:"tracks"`
	Items    int  `json:"items"`
	HasGraph bool `json:"has_graph"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <project.cue>",
		Short: "Compile a CUE project definition",
		Long: `Compile a CUE project file into a timeline model.

The compiler parses the file, validates the project, and can persist the
result to the project database or write it out as JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the project to the database")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	p, err := LoadProjectFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled project %q from %s", p.Name, path)

	// A project that fails validation is never persisted.
	if verrs := compiler.Validate(p); len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	if opts.Save {
		s, err := openStore(opts.RootOptions)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		defer s.Close()
		if err := s.Save(cmd.Context(), p); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "saving project", err)
		}
		formatter.VerboseLog("Saved project %q to %s", p.Name, opts.DBPath)
	}

	if opts.Output != "" {
		if err := writeProjectJSON(p, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWrite, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, p, opts)
}

// outputCompileSuccess outputs the compiled project summary.
func outputCompileSuccess(formatter *OutputFormatter, p *compiler.Project, opts *CompileOptions) error {
	stats := projectStats(p)

	if formatter.Format == "json" {
		return formatter.SuccessIndented(CompileSummary{Project: p, Stats: stats})
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled project %q\n\n", p.Name)
	fmt.Fprintf(formatter.Writer, "  %d asset(s), %d track(s), %d item(s)\n", stats.Assets, stats.Tracks, stats.Items)
	for _, track := range p.Model.Tracks() {
		fmt.Fprintf(formatter.Writer, "  track %s (%s): %d item(s)\n", track.ID, track.Kind, len(track.Items))
	}
	if stats.HasGraph {
		fmt.Fprintf(formatter.Writer, "  graph: %d node(s), %d edge(s)\n", len(p.Graph.Nodes), len(p.Graph.Edges))
	}
	if opts.Save {
		fmt.Fprintf(formatter.Writer, "\nSaved to %s\n", opts.DBPath)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote project JSON to %s\n", opts.Output)
	}
	return nil
}

func projectStats(p *compiler.Project) CompileStats {
	stats := CompileStats{
		Assets:   len(p.Assets),
		Tracks:   len(p.Model.Tracks()),
		HasGraph: p.Graph != nil,
	}
	for _, t := range p.Model.Tracks() {
		stats.Items += len(t.Items)
	}
	return stats
}

// outputLoadError reports a load or compile error and maps it to exit code 2.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code = loadErr.Code
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code = ErrCodeCompile
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, err.Error()), nil)
}

// outputValidationErrors reports validation findings and maps them to exit
// code 1: the command ran fine, the project is what failed.
func outputValidationErrors(formatter *OutputFormatter, verrs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeValidation,
			fmt.Sprintf("project failed validation with %d error(s)", len(verrs)), verrs)
		return NewExitError(ExitFailure, "project failed validation")
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, ve := range verrs {
		fmt.Fprintf(formatter.Writer, "  %s\n", ve.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("project failed validation with %d error(s)", len(verrs)))
}

// writeProjectJSON writes the compiled project to a file as indented JSON.
func writeProjectJSON(p *compiler.Project, filename string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
