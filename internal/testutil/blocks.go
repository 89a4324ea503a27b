// Package testutil provides canonical blocks and scripted oracles for the
// analysis tests.
package testutil

import (
	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
)

// Kernel builds the add-two-sequences kernel used across the test suite:
//
//	%a0 = seq.read.u64 @S, 0    %a1 = seq.read.u64 @S, 1
//	%b0 = seq.read.u64 @T, 0    %b1 = seq.read.u64 @T, 1
//	%s0 = add %a0, %b0          %s1 = add %a1, %b1
//	%w0 = seq.write.u64 %s0, @U, 0
//	%w1 = seq.write.u64 %s1, %w0, 1
//
// The returned oracle carries the block's def-use flow.
func Kernel() (*ir.Block, *deps.Graph) {
	b := ir.NewBuilder(ir.NewBlock("entry"))
	s := b.Param("S")
	t := b.Param("T")
	u := b.Param("U")

	a0 := b.Read("%a0", ir.U64, s, b.Const(0))
	a1 := b.Read("%a1", ir.U64, s, b.Const(1))
	b0 := b.Read("%b0", ir.U64, t, b.Const(0))
	b1 := b.Read("%b1", ir.U64, t, b.Const(1))
	s0 := b.Add("%s0", a0, b0)
	s1 := b.Add("%s1", a1, b1)
	w0 := b.Write("%w0", ir.U64, s0, u, b.Const(0))
	b.Write("%w1", ir.U64, s1, w0, b.Const(1))

	block := b.Block()
	return block, deps.FromFlow(block)
}

// AdjacentReads builds a block of n consecutive reads of one sequence.
func AdjacentReads(n int) (*ir.Block, *deps.Graph) {
	b := ir.NewBuilder(ir.NewBlock("entry"))
	s := b.Param("S")
	for i := 0; i < n; i++ {
		b.Read("", ir.U64, s, b.Const(int64(i)))
	}
	block := b.Block()
	return block, deps.FromFlow(block)
}

// OracleFunc adapts a function to the deps.Oracle interface.
type OracleFunc func(from, to *ir.Inst) bool

// HasDependence calls the wrapped function.
func (f OracleFunc) HasDependence(from, to *ir.Inst) bool { return f(from, to) }
