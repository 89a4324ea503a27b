package packdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slpvec/internal/ir"
	"github.com/roach88/slpvec/internal/slp"
	"github.com/roach88/slpvec/internal/testutil"
)

// buildPipelinePacks runs seed+extend over the read/add/write kernel and
// returns the block with its final packs in producer-first order.
func buildPipelinePacks(t *testing.T) (*ir.Block, []*slp.Pack) {
	t.Helper()

	block, oracle := testutil.Kernel()
	ps := slp.SeedBlock(block, oracle)
	slp.NewExtender(block, ps, oracle).Extend()
	ps, err := slp.MergePacks(ps)
	require.NoError(t, err)
	require.Equal(t, 4, ps.Len())

	return block, ps.SortedPacks()
}

func TestAddNodeFullPipeline(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	byName := make(map[string]*Node)
	for _, p := range packs {
		n, err := g.AddNode(p)
		require.NoError(t, err)
		byName[p.First().Name()] = n
	}
	require.Equal(t, 4, g.Len())

	addNode := byName["%s0"]
	readA := byName["%a0"]
	readB := byName["%b0"]
	writeNode := byName["%w0"]

	// the add pack's operand 0 comes from the (a0,a1) pack, lane-aligned
	for l := 0; l < 2; l++ {
		prod := addNode.OperandProducer(0, l)
		require.True(t, prod.Valid())
		assert.Equal(t, readA, prod.Node)
		assert.Equal(t, l, prod.Lane)

		prod = addNode.OperandProducer(1, l)
		require.True(t, prod.Valid())
		assert.Equal(t, readB, prod.Node)
		assert.Equal(t, l, prod.Lane)
	}

	// the write pack's value operand comes from the add pack
	for l := 0; l < 2; l++ {
		prod := writeNode.OperandProducer(0, l)
		require.True(t, prod.Valid())
		assert.Equal(t, addNode, prod.Node)
		assert.Equal(t, l, prod.Lane)
	}

	// producer/consumer back-references
	assert.Equal(t, []*Node{readA, readB}, addNode.Producers())
	assert.Equal(t, []*Node{writeNode}, addNode.Consumers())
	assert.Equal(t, []*Node{addNode}, readA.Consumers())
	assert.Empty(t, writeNode.Consumers())
}

// Every filled operand slot must agree with the IR: the producer's lane is
// bit-identical to the consumer lane's operand.
func TestOperandTableMatchesIR(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	for _, p := range packs {
		_, err := g.AddNode(p)
		require.NoError(t, err)
	}

	for _, n := range g.NodesInsertionOrder() {
		for o := 0; o < n.NumOperands(); o++ {
			for l := 0; l < n.NumLanes(); l++ {
				prod := n.OperandProducer(o, l)
				if !prod.Valid() {
					continue
				}
				want := n.Pack().Lane(l).Operand(o)
				got := prod.Node.Pack().Lane(prod.Lane)
				assert.Equal(t, want, ir.Value(got),
					"node %d operand %d lane %d", n.index, o, l)
			}
		}
	}
}

func TestAddNodeConsumersBeforeProducers(t *testing.T) {
	// adding the consumer first still yields a fully wired graph: the
	// producer's insertion patches the consumer's operand table
	_, packs := buildPipelinePacks(t)

	g := New()
	for i := len(packs) - 1; i >= 0; i-- {
		_, err := g.AddNode(packs[i])
		require.NoError(t, err)
	}

	// the add node was inserted after its consumers and before its
	// producers; every edge must still be present
	snap := g.Snapshot()
	assert.Len(t, snap["edges"], 6) // 2 read->add x2 lanes + add->write x2 lanes
}

func TestAddNodeLaneConflict(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	_, err := g.AddNode(packs[0])
	require.NoError(t, err)

	_, err = g.AddNode(packs[0])
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeLaneConflict))
	assert.Equal(t, 1, g.Len(), "the failed node must not join the graph")
}

func TestAddNodeUnknownKind(t *testing.T) {
	b := ir.NewBuilder(ir.NewBlock("entry"))
	m0 := b.Mul("%m0", b.Const(1), b.Const(2))
	m1 := b.Mul("%m1", b.Const(3), b.Const(4))

	g := New()
	_, err := g.AddNode(slp.NewPair(m0, m1, false))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeUnknownKind))
}

func TestStoreSelfOperandIdiom(t *testing.T) {
	// the write chain: %w1's object operand is %w0, its own pack mate.
	// The graph tolerates it and leaves the slot empty.
	b := ir.NewBuilder(ir.NewBlock("entry"))
	u := b.Param("U")
	w0 := b.Write("%w0", ir.U64, b.Param("v0"), u, b.Const(0))
	w1 := b.Write("%w1", ir.U64, b.Param("v1"), w0, b.Const(1))

	g := New()
	n, err := g.AddNode(slp.NewPair(w0, w1, true))
	require.NoError(t, err)

	// operand 1 (the object) of lane 1 resolves to the node itself and
	// must stay empty
	assert.False(t, n.OperandProducer(1, 1).Valid())
	assert.Empty(t, n.Producers())
	assert.Empty(t, n.Consumers())
}

func TestSelfCycleOutsideStoreIsFatal(t *testing.T) {
	// an add pack whose right lane consumes its left lane is a structural
	// cycle; the analysis never produces one, and the graph must refuse it
	b := ir.NewBuilder(ir.NewBlock("entry"))
	x := b.Add("%x", b.Const(1), b.Const(2))
	y := b.Add("%y", x, b.Const(3))

	g := New()
	_, err := g.AddNode(slp.NewPair(x, y, false))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeSelfCycle))
}

func TestNodesReverseInsertionOrder(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	for _, p := range packs {
		_, err := g.AddNode(p)
		require.NoError(t, err)
	}

	nodes := g.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, "%w0", nodes[0].Pack().First().Name(), "most recent node first")
	assert.Equal(t, "%a0", nodes[3].Pack().First().Name())
}

func TestSeedsList(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	for _, p := range packs {
		_, err := g.AddNode(p)
		require.NoError(t, err)
	}

	seeds := g.Seeds()
	require.Len(t, seeds, 3)
	for _, n := range seeds {
		assert.True(t, n.Seed())
	}
}

func TestLookup(t *testing.T) {
	block, packs := buildPipelinePacks(t)

	g := New()
	for _, p := range packs {
		_, err := g.AddNode(p)
		require.NoError(t, err)
	}

	a1 := block.Insts()[1]
	n, lane, ok := g.Lookup(a1)
	require.True(t, ok)
	assert.Equal(t, 1, lane)
	assert.Equal(t, "%a0", n.Pack().First().Name())

	_, _, ok = g.Lookup(nil)
	assert.False(t, ok)
}

func TestEmptyDAG(t *testing.T) {
	g := New()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Seeds())
	assert.Equal(t, "digraph G {\n}\n", g.ToGraphviz())
}

func TestFingerprintDeterministic(t *testing.T) {
	fingerprint := func() string {
		_, packs := buildPipelinePacks(t)
		g := New()
		for _, p := range packs {
			_, err := g.AddNode(p)
			require.NoError(t, err)
		}
		fp, err := g.Fingerprint()
		require.NoError(t, err)
		return fp
	}

	first := fingerprint()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, fingerprint(), "same input block must produce a structurally identical graph")
	}
}
