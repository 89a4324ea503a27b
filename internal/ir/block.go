package ir

import (
	"fmt"
	"strings"
)

// Block is a single straight-line basic block: an ordered list of
// instructions with no control flow inside.
type Block struct {
	name  string
	insts []*Inst
}

// NewBlock creates an empty block.
func NewBlock(name string) *Block {
	return &Block{name: name}
}

// Name returns the block's name.
func (b *Block) Name() string { return b.name }

// Len returns the number of instructions.
func (b *Block) Len() int { return len(b.insts) }

// Insts returns the instructions in program order. The returned slice must
// not be mutated.
func (b *Block) Insts() []*Inst { return b.insts }

// Position returns the program-order index of an instruction, or -1 if the
// instruction does not belong to this block.
func (b *Block) Position(i *Inst) int {
	if i == nil || i.block != b {
		return -1
	}
	return i.id
}

// String renders the whole block, one instruction per line.
func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", b.name)
	for _, i := range b.insts {
		fmt.Fprintf(&sb, "  %s\n", i)
	}
	return sb.String()
}

// append wires a new instruction into the block: assigns its ID, records it,
// and registers a use on every instruction operand.
func (b *Block) append(i *Inst) *Inst {
	i.id = len(b.insts)
	i.block = b
	if i.name == "" {
		i.name = fmt.Sprintf("%%v%d", i.id)
	}
	b.insts = append(b.insts, i)
	for n, op := range i.operands {
		if def, ok := op.(*Inst); ok {
			def.uses = append(def.uses, Use{User: i, OperandNo: n})
		}
	}
	return i
}

// Builder appends instructions to a block. Methods return the new
// instruction so results can be threaded directly into later operands.
type Builder struct {
	block *Block
}

// NewBuilder creates a builder appending to block.
func NewBuilder(block *Block) *Builder {
	return &Builder{block: block}
}

// Block returns the block under construction.
func (bd *Builder) Block() *Block { return bd.block }

// Param introduces an opaque incoming value. Params are not instructions
// and do not occupy a position in the block.
func (bd *Builder) Param(name string) *Param {
	return &Param{Name: name}
}

// Const introduces a signed integer constant.
func (bd *Builder) Const(v int64) *Const {
	return &Const{Int: v}
}

// SeqAlloc appends an allocate-sequence instruction.
func (bd *Builder) SeqAlloc(name string, elem ElemType, length Value) *Inst {
	return bd.block.append(&Inst{
		name:     name,
		op:       OpSeqAlloc,
		elem:     elem,
		operands: []Value{length},
	})
}

// Read appends a one-dimensional indexed read.
func (bd *Builder) Read(name string, elem ElemType, object, index Value) *Inst {
	return bd.block.append(&Inst{
		name:     name,
		op:       OpSeqRead,
		elem:     elem,
		operands: []Value{object, index},
	})
}

// ReadND appends a multi-dimensional indexed read.
func (bd *Builder) ReadND(name string, elem ElemType, object Value, indices ...Value) *Inst {
	ops := append([]Value{object}, indices...)
	return bd.block.append(&Inst{
		name:     name,
		op:       OpSeqRead,
		elem:     elem,
		operands: ops,
	})
}

// Write appends a one-dimensional indexed write. The result is the updated
// sequence value.
func (bd *Builder) Write(name string, elem ElemType, value, object, index Value) *Inst {
	return bd.block.append(&Inst{
		name:     name,
		op:       OpSeqWrite,
		elem:     elem,
		operands: []Value{value, object, index},
	})
}

// Add appends an addition.
func (bd *Builder) Add(name string, x, y Value) *Inst {
	return bd.block.append(&Inst{
		name:     name,
		op:       OpAdd,
		operands: []Value{x, y},
	})
}

// Mul appends a multiplication.
func (bd *Builder) Mul(name string, x, y Value) *Inst {
	return bd.block.append(&Inst{
		name:     name,
		op:       OpMul,
		operands: []Value{x, y},
	})
}
