package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framewright/cutline/internal/compiler"
)

// ValidateResult is the success payload of the validate command.
type ValidateResult struct {
	Project string `json:"project"`
	Valid   bool   `json:"valid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.cue>",
		Short: "Validate a CUE project definition",
		Long: `Compile a CUE project file and check it against structural rules:
unique IDs, resolvable asset references, non-overlapping items per track
and well-formed clip graphs. All findings are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := LoadProjectFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	if verrs := compiler.Validate(p); len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidateResult{Project: p.Name, Valid: true})
	}
	fmt.Fprintf(formatter.Writer, "✓ Project %q is valid\n", p.Name)
	return nil
}
