package pipeline

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
	"github.com/roach88/slpvec/internal/testutil"
)

func TestRunFullPipeline(t *testing.T) {
	block, oracle := testutil.Kernel()

	res, err := Run(block, Options{Oracle: oracle})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.Seeds)
	assert.Equal(t, 1, res.Stats.Extended)
	assert.Equal(t, 0, res.Stats.Merged)
	assert.Equal(t, 4, res.Stats.Nodes)
	assert.Equal(t, 4, res.DAG.Len())

	parsed, err := uuid.Parse(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRunAdjacentReads(t *testing.T) {
	block, oracle := testutil.AdjacentReads(4)

	res, err := Run(block, Options{Oracle: oracle})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Seeds)
	assert.Equal(t, 0, res.Stats.Extended)
	assert.Equal(t, 2, res.DAG.Len())
	assert.Len(t, res.DAG.Seeds(), 2)
}

func TestRunEmptyBlock(t *testing.T) {
	b := ir.NewBuilder(ir.NewBlock("entry"))
	x := b.Add("%x", b.Const(1), b.Const(2))
	b.Add("%y", x, b.Const(3))
	block := b.Block()

	res, err := Run(block, Options{Oracle: deps.FromFlow(block)})
	require.NoError(t, err)

	assert.Equal(t, 0, res.PackSet.Len(), "no packable pairs is the expected outcome, not an error")
	assert.Equal(t, 0, res.DAG.Len())
}

func TestRunTraceOrdered(t *testing.T) {
	block, oracle := testutil.Kernel()

	res, err := Run(block, Options{Oracle: oracle})
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)

	var last int64
	for _, ev := range res.Trace {
		assert.Greater(t, ev.Seq, last, "trace seq must be strictly increasing")
		last = ev.Seq
	}
	assert.Equal(t, StageSeed, res.Trace[0].Stage)
	assert.Equal(t, StageDAG, res.Trace[len(res.Trace)-1].Stage)
}

func TestRunDebugSink(t *testing.T) {
	block, oracle := testutil.Kernel()

	var sb strings.Builder
	_, err := Run(block, Options{Oracle: oracle, Debug: &sb})
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "[seed] seeded pack set:")
	assert.Contains(t, sb.String(), "[dag] added node")

	// debug printing is off by default
	var quiet strings.Builder
	res, err := Run(block, Options{Oracle: oracle})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Trace)
	assert.Empty(t, quiet.String())
}

func TestRunDeterministicDAG(t *testing.T) {
	fingerprint := func() string {
		block, oracle := testutil.Kernel()
		res, err := Run(block, Options{Oracle: oracle})
		require.NoError(t, err)
		fp, err := res.DAG.Fingerprint()
		require.NoError(t, err)
		return fp
	}

	first := fingerprint()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, fingerprint())
	}
}

func TestRunNilOracle(t *testing.T) {
	block, _ := testutil.Kernel()

	res, err := Run(block, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.PackSet.Len())
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
