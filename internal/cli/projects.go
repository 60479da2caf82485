package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage stored projects",
	}
	cmd.AddCommand(newProjectsListCommand(rootOpts))
	cmd.AddCommand(newProjectsDeleteCommand(rootOpts))
	return cmd
}

func newProjectsListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored projects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			s, err := openStore(opts)
			if err != nil {
				return outputLoadError(formatter, err)
			}
			defer s.Close()

			names, err := s.List(cmd.Context())
			if err != nil {
				_ = formatter.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "listing projects", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(names)
			}
			if len(names) == 0 {
				fmt.Fprintln(formatter.Writer, "No projects stored")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(formatter.Writer, name)
			}
			return nil
		},
	}
}

func newProjectsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <project>",
		Short:         "Delete a stored project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			s, err := openStore(opts)
			if err != nil {
				return outputLoadError(formatter, err)
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				_ = formatter.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "deleting project", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "Deleted %q\n", args[0])
			return nil
		},
	}
}
