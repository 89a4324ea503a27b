package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAddBlock builds the canonical two-wide read/add/write block used
// across the analysis tests:
//
//	%a0 = seq.read.u64 @S, 0    %a1 = seq.read.u64 @S, 1
//	%b0 = seq.read.u64 @T, 0    %b1 = seq.read.u64 @T, 1
//	%s0 = add %a0, %b0          %s1 = add %a1, %b1
//	%w0 = seq.write.u64 %s0, @U, 0
//	%w1 = seq.write.u64 %s1, %w0, 1
func buildAddBlock() *Block {
	b := NewBuilder(NewBlock("entry"))
	s := b.Param("S")
	tt := b.Param("T")
	u := b.Param("U")

	a0 := b.Read("%a0", U64, s, b.Const(0))
	a1 := b.Read("%a1", U64, s, b.Const(1))
	b0 := b.Read("%b0", U64, tt, b.Const(0))
	b1 := b.Read("%b1", U64, tt, b.Const(1))
	s0 := b.Add("%s0", a0, b0)
	s1 := b.Add("%s1", a1, b1)
	w0 := b.Write("%w0", U64, s0, u, b.Const(0))
	b.Write("%w1", U64, s1, w0, b.Const(1))

	return b.Block()
}

func TestBuilderWiresUses(t *testing.T) {
	block := buildAddBlock()
	require.Equal(t, 8, block.Len())

	insts := block.Insts()
	a0, s0 := insts[0], insts[4]

	// %a0 is used once, as operand 0 of %s0
	require.Len(t, a0.Uses(), 1)
	assert.Equal(t, s0, a0.Uses()[0].User)
	assert.Equal(t, 0, a0.Uses()[0].OperandNo)

	// %s0 is used once, as the value operand of %w0
	require.Len(t, s0.Uses(), 1)
	assert.Equal(t, "%w0", s0.Uses()[0].User.Name())
	assert.Equal(t, 0, s0.Uses()[0].OperandNo)
}

func TestInstIDsAreDense(t *testing.T) {
	block := buildAddBlock()
	for n, inst := range block.Insts() {
		assert.Equal(t, n, inst.ID())
		assert.Equal(t, n, block.Position(inst))
	}
}

func TestPositionForeignInst(t *testing.T) {
	block := buildAddBlock()
	other := NewBuilder(NewBlock("other"))
	foreign := other.Add("%x", other.Const(1), other.Const(2))

	assert.Equal(t, -1, block.Position(foreign))
	assert.Equal(t, -1, block.Position(nil))
}

func TestCollectionIntrospection(t *testing.T) {
	block := buildAddBlock()
	insts := block.Insts()
	read, add, write := insts[0], insts[4], insts[6]

	assert.Equal(t, CollIndexRead, read.CollectionKind())
	assert.Equal(t, 1, read.NumDimensions())
	v, ok := AsIntConst(read.IndexOfDimension(0))
	require.True(t, ok)
	assert.Equal(t, int64(0), v)
	assert.Equal(t, &Param{Name: "S"}, read.ObjectOperand())

	assert.Equal(t, CollNone, add.CollectionKind())
	assert.Equal(t, 0, add.NumDimensions())
	assert.Nil(t, add.ObjectOperand())

	assert.Equal(t, CollIndexWrite, write.CollectionKind())
	assert.Equal(t, 1, write.NumDimensions())
	assert.Equal(t, "%s0", write.ValueOperand().(*Inst).Name())
}

func TestKindTagSeparatesElemTypes(t *testing.T) {
	b := NewBuilder(NewBlock("entry"))
	s := b.Param("S")
	r32 := b.Read("%r32", U32, s, b.Const(0))
	r64 := b.Read("%r64", U64, s, b.Const(1))

	assert.NotEqual(t, r32.KindTag(), r64.KindTag())
	assert.Equal(t, r32.KindTag().Coll, r64.KindTag().Coll)
}

func TestAsIntConst(t *testing.T) {
	b := NewBuilder(NewBlock("entry"))

	v, ok := AsIntConst(b.Const(42))
	require.True(t, ok)
	assert.Equal(t, int64(42), v)

	_, ok = AsIntConst(b.Param("S"))
	assert.False(t, ok)

	_, ok = AsIntConst(b.Add("%x", b.Const(1), b.Const(2)))
	assert.False(t, ok)
}

func TestInstString(t *testing.T) {
	block := buildAddBlock()
	insts := block.Insts()

	assert.Equal(t, "%a0 = seq.read.u64 @S, 0", insts[0].String())
	assert.Equal(t, "%s0 = add %a0, %b0", insts[4].String())
	assert.Equal(t, "%w1 = seq.write.u64 %s1, %w0, 1", insts[7].String())
}
