package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/slpvec/internal/pipeline"
)

// TraceResult is the JSON payload of a trace run.
type TraceResult struct {
	RunID string                `json:"run_id"`
	Block string                `json:"block"`
	Trace []pipeline.TraceEvent `json:"trace"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <fixture.cue>",
		Short: "Run the analysis and print the stage trace",
		Long: `Run the pack analysis over a block fixture and print every
stage event in order: what was seeded, what the extender pulled in,
what merged, and which nodes joined the DAG.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTrace(opts *RootOptions, path string, cmd *cobra.Command) error {
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
		return WrapExitError(ExitCommandError, "load failed", err)
	}

	block, oracle, err := f.Build()
	if err != nil {
		formatter.Error(ErrCodeBadFixture, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid fixture", err)
	}

	res, err := pipeline.Run(block, pipeline.Options{Oracle: oracle})
	if err != nil {
		formatter.Error(ErrCodeAnalysis, err.Error(), nil)
		return WrapExitError(ExitFailure, "analysis failed", err)
	}

	if opts.Format == "json" {
		return formatter.JSON(TraceResult{RunID: res.RunID, Block: block.Name(), Trace: res.Trace})
	}

	fmt.Fprintf(formatter.Writer, "run %s\n", res.RunID)
	for _, ev := range res.Trace {
		fmt.Fprintf(formatter.Writer, "%4d [%s] %s\n", ev.Seq, ev.Stage, ev.Detail)
	}
	return nil
}
