package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/slpvec/internal/pipeline"
	"github.com/roach88/slpvec/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Dot bool   // emit GraphViz instead of the summary
	DB  string // record the run to this SQLite database
}

// AnalyzeResult is the JSON payload of a successful analysis.
type AnalyzeResult struct {
	RunID   string         `json:"run_id"`
	Block   string         `json:"block"`
	Stats   pipeline.Stats `json:"stats"`
	Packs   []AnalyzePack  `json:"packs"`
	DAGHash string         `json:"dag_hash"`
	Dot     string         `json:"dot,omitempty"`
}

// AnalyzePack is one pack in the JSON payload.
type AnalyzePack struct {
	Kind  string   `json:"kind"`
	Seed  bool     `json:"seed"`
	Lanes []string `json:"lanes"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <fixture.cue>",
		Short: "Run the pack analysis over a block fixture",
		Long: `Run the full pack analysis pipeline over a block fixture:
seed adjacent collection accesses, extend along use-def and def-use
chains, merge pack runs, and build the pack DAG.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Dot, "dot", false, "emit the DAG as GraphViz")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run to this database")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	res, err := analyzeFixture(opts, path, formatter)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			if loadErr.Code == ErrCodeBadFixture {
				return WrapExitError(ExitFailure, "invalid fixture", err)
			}
			return WrapExitError(ExitCommandError, "load failed", err)
		}
		formatter.Error(ErrCodeAnalysis, err.Error(), nil)
		return WrapExitError(ExitFailure, "analysis failed", err)
	}

	if opts.Format == "json" {
		return formatter.JSON(res)
	}

	if opts.Dot {
		fmt.Fprint(formatter.Writer, res.Dot)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "run %s\n", res.RunID)
	fmt.Fprintf(formatter.Writer, "block %s: %d seed(s), %d extended, %d merged, %d node(s)\n",
		res.Block, res.Stats.Seeds, res.Stats.Extended, res.Stats.Merged, res.Stats.Nodes)
	for _, p := range res.Packs {
		seed := ""
		if p.Seed {
			seed = " [seed]"
		}
		fmt.Fprintf(formatter.Writer, "  (%s)%s ", p.Kind, seed)
		for i, l := range p.Lanes {
			if i > 0 {
				fmt.Fprint(formatter.Writer, ", ")
			}
			fmt.Fprint(formatter.Writer, l)
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

func analyzeFixture(opts *AnalyzeOptions, path string, formatter *OutputFormatter) (*AnalyzeResult, error) {
	f, err := LoadFixture(path)
	if err != nil {
		return nil, err
	}

	block, oracle, err := f.Build()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadFixture, Message: err.Error()}
	}
	formatter.VerboseLog("loaded block %s: %d instruction(s)", block.Name(), block.Len())

	pipeOpts := pipeline.Options{Oracle: oracle}
	if opts.Verbose && opts.Format != "json" {
		pipeOpts.Debug = formatter.ErrWriter
	}

	res, err := pipeline.Run(block, pipeOpts)
	if err != nil {
		return nil, err
	}

	dagHash, err := res.DAG.Fingerprint()
	if err != nil {
		return nil, err
	}

	out := &AnalyzeResult{
		RunID:   res.RunID,
		Block:   block.Name(),
		Stats:   res.Stats,
		DAGHash: dagHash,
	}
	for _, node := range res.DAG.NodesInsertionOrder() {
		pack := AnalyzePack{Kind: node.Type().String(), Seed: node.Seed()}
		for l := 0; l < node.NumLanes(); l++ {
			pack.Lanes = append(pack.Lanes, node.Pack().Lane(l).Name())
		}
		out.Packs = append(out.Packs, pack)
	}
	if opts.Dot || opts.Format == "json" {
		out.Dot = res.DAG.ToGraphviz()
	}

	if opts.DB != "" {
		s, err := store.Open(opts.DB)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: err.Error()}
		}
		defer s.Close()
		if err := s.WriteRun(context.Background(), res); err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: err.Error()}
		}
		formatter.VerboseLog("recorded run %s to %s", res.RunID, opts.DB)
	}

	return out, nil
}
