package pipeline

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
	"github.com/roach88/slpvec/internal/packdag"
	"github.com/roach88/slpvec/internal/slp"
)

// Options configures a run.
type Options struct {
	// Oracle answers dependence queries. Nil refuses every pair, so the
	// run degenerates to an empty pack set - legal but rarely wanted.
	Oracle deps.Oracle

	// Debug mirrors trace events to this sink as they happen. Nil
	// disables printing.
	Debug io.Writer

	// Rank optionally arbitrates def-use extension candidates.
	Rank slp.RankUsers
}

// Stats counts what each stage did.
type Stats struct {
	Seeds    int `json:"seeds"`
	Extended int `json:"extended"`
	Merged   int `json:"merged"`
	Nodes    int `json:"nodes"`
}

// Result is the outcome of one block analysis.
type Result struct {
	RunID   string
	Block   *ir.Block
	PackSet *slp.PackSet
	DAG     *packdag.DAG
	Trace   []TraceEvent
	Stats   Stats
}

// Run analyzes one basic block: seed, extend, merge, build the DAG.
//
// A block with nothing packable yields an empty pack set and an empty DAG;
// that is the expected outcome for most blocks, not an error. Errors are
// reserved for invariant violations (unknown instruction kinds, seed-chain
// corruption, DAG index collisions).
func Run(block *ir.Block, opts Options) (*Result, error) {
	tr := newTracer(opts.Debug)
	res := &Result{
		RunID: uuid.Must(uuid.NewV7()).String(),
		Block: block,
	}

	tr.emit(StageSeed, "block %s: %d instructions", block.Name(), block.Len())
	ps := slp.SeedBlock(block, opts.Oracle)
	res.Stats.Seeds = ps.Len()
	tr.emit(StageSeed, "seeded pack set: %s", ps.DebugString())

	ext := slp.NewExtender(block, ps, opts.Oracle)
	if opts.Rank != nil {
		ext.SetRank(opts.Rank)
	}
	ext.Extend()
	res.Stats.Extended = ps.Len() - res.Stats.Seeds
	tr.emit(StageExtend, "extended pack set: %s", ps.DebugString())

	before := ps.Len()
	ps, err := slp.MergePacks(ps)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	res.Stats.Merged = before - ps.Len()
	tr.emit(StageMerge, "merged pack set: %s", ps.DebugString())

	dag := packdag.New()
	for _, p := range ps.SortedPacks() {
		if _, err := dag.AddNode(p); err != nil {
			return nil, fmt.Errorf("dag: %w", err)
		}
		tr.emit(StageDAG, "added node %s", p.DebugString())
	}
	res.Stats.Nodes = dag.Len()

	res.PackSet = ps
	res.DAG = dag
	res.Trace = tr.events
	return res, nil
}
