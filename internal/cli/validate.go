package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Block  string   `json:"block,omitempty"`
	Insts  int      `json:"insts,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <fixture.cue>",
		Short: "Validate a block fixture without running the analysis",
		Long: `Validate that a CUE block fixture parses, that every operand
reference resolves, and that the dependence edges name known
instructions. Faster than analyze for fixture development.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
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

	f, err := LoadFixture(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
		} else {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "validation failed", err)
	}

	block, _, err := f.Build()
	if err != nil {
		result := ValidationResult{Valid: false, Errors: []string{err.Error()}}
		if opts.Format == "json" {
			formatter.JSON(result)
		} else {
			fmt.Fprintf(formatter.Writer, "invalid: %s\n", err)
		}
		return WrapExitError(ExitFailure, "invalid fixture", err)
	}

	result := ValidationResult{Valid: true, Block: block.Name(), Insts: block.Len()}
	if opts.Format == "json" {
		return formatter.JSON(result)
	}
	fmt.Fprintf(formatter.Writer, "valid: block %s with %d instruction(s)\n", block.Name(), block.Len())
	return nil
}
