package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slpvec/internal/ir"
)

func twoAdds(t *testing.T) (*ir.Inst, *ir.Inst) {
	t.Helper()
	b := ir.NewBuilder(ir.NewBlock("entry"))
	x := b.Add("%x", b.Const(1), b.Const(2))
	y := b.Add("%y", b.Const(3), b.Const(4))
	return x, y
}

func TestGraphDirectional(t *testing.T) {
	x, y := twoAdds(t)
	g := NewGraph()
	g.AddEdge(x, y, Data)

	assert.True(t, g.HasDependence(x, y))
	assert.False(t, g.HasDependence(y, x))
	assert.True(t, g.HasDependenceOfKind(x, y, Data))
	assert.False(t, g.HasDependenceOfKind(x, y, Memory))
}

func TestGraphIgnoresSelfEdges(t *testing.T) {
	x, _ := twoAdds(t)
	g := NewGraph()
	g.AddEdge(x, x, Memory)

	assert.False(t, g.HasDependence(x, x))
}

func TestIndependent(t *testing.T) {
	x, y := twoAdds(t)

	g := NewGraph()
	assert.True(t, Independent(g, x, y))

	g.AddEdge(y, x, Memory)
	assert.False(t, Independent(g, x, y), "edge in either direction orders the pair")
}

func TestIndependentNilOracle(t *testing.T) {
	x, y := twoAdds(t)
	assert.False(t, Independent(nil, x, y), "no oracle means no packing")
}

func TestFromFlow(t *testing.T) {
	b := ir.NewBuilder(ir.NewBlock("entry"))
	s := b.Param("S")
	a0 := b.Read("%a0", ir.U64, s, b.Const(0))
	a1 := b.Read("%a1", ir.U64, s, b.Const(1))
	sum := b.Add("%sum", a0, a1)

	g := FromFlow(b.Block())
	require.NotNil(t, g)

	assert.True(t, g.HasDependenceOfKind(a0, sum, Data))
	assert.True(t, g.HasDependenceOfKind(a1, sum, Data))
	assert.False(t, g.HasDependence(a0, a1))
	assert.False(t, g.HasDependence(sum, a0))
}
