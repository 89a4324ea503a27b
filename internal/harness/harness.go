package harness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slpvec/internal/pipeline"
)

// Result bundles a scenario's pipeline output with the rendered packs.
type Result struct {
	Scenario *Scenario
	Run      *pipeline.Result
	Packs    []PackView
}

// PackView is a comparison-friendly rendering of one DAG node.
type PackView struct {
	Lanes []string
	Kind  string
	Seed  bool
}

// Run executes a scenario's block through the full pipeline.
func Run(s *Scenario) (*Result, error) {
	block, oracle, err := s.Block.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: building block: %w", s.Name, err)
	}

	run, err := pipeline.Run(block, pipeline.Options{Oracle: oracle})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	res := &Result{Scenario: s, Run: run}
	for _, node := range run.DAG.NodesInsertionOrder() {
		view := PackView{Kind: node.Type().String(), Seed: node.Seed()}
		for l := 0; l < node.NumLanes(); l++ {
			view.Lanes = append(view.Lanes, node.Pack().Lane(l).Name())
		}
		res.Packs = append(res.Packs, view)
	}
	return res, nil
}

// Assert runs a scenario and checks its expectations, including the
// golden comparison when the scenario names a golden file.
func Assert(t *testing.T, s *Scenario) {
	t.Helper()

	res, err := Run(s)
	require.NoError(t, err)

	var want []PackView
	for _, e := range s.Expect {
		want = append(want, PackView{Lanes: e.Lanes, Kind: e.Kind, Seed: e.Seed})
	}
	assert.Equal(t, want, res.Packs, "scenario %s: packs differ", s.Name)

	if s.Golden != "" {
		AssertGolden(t, s.Golden, res)
	}
}
