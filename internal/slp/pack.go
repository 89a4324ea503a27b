package slp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/slpvec/internal/ir"
)

// PackType identifies which vector operation a pack lowers to.
type PackType int

const (
	// PackLoad is an indexed collection read.
	PackLoad PackType = iota + 1
	// PackStore is an indexed collection write.
	PackStore
	// PackAdd is elementwise addition.
	PackAdd
)

func (t PackType) String() string {
	switch t {
	case PackLoad:
		return "load"
	case PackStore:
		return "store"
	case PackAdd:
		return "add"
	default:
		return fmt.Sprintf("packtype(%d)", int(t))
	}
}

// Pack is an ordered group of scalar instructions intended to be fused into
// one SIMD instruction. Lane l produces element l of the vector result.
//
// All lanes of a valid pack share the same opcode and operand arity; the
// extender and seeder guarantee this at construction.
type Pack struct {
	lanes []*ir.Inst
	seed  bool
}

// NewPair creates a 2-lane pack.
func NewPair(left, right *ir.Inst, seed bool) *Pack {
	return &Pack{lanes: []*ir.Inst{left, right}, seed: seed}
}

// newPack creates a pack over an explicit lane sequence. Used by the merger.
func newPack(lanes []*ir.Inst, seed bool) *Pack {
	return &Pack{lanes: lanes, seed: seed}
}

// NumLanes returns the lane count.
func (p *Pack) NumLanes() int { return len(p.lanes) }

// NumOperands returns the operand arity shared by all lanes.
func (p *Pack) NumOperands() int { return p.lanes[0].NumOperands() }

// Lane returns the instruction in lane l.
func (p *Pack) Lane(l int) *ir.Inst { return p.lanes[l] }

// Lanes returns the lane sequence. The returned slice must not be mutated.
func (p *Pack) Lanes() []*ir.Inst { return p.lanes }

// First returns the leftmost lane.
func (p *Pack) First() *ir.Inst { return p.lanes[0] }

// Last returns the rightmost lane.
func (p *Pack) Last() *ir.Inst { return p.lanes[len(p.lanes)-1] }

// Seed reports whether the pack was created by the seeder.
func (p *Pack) Seed() bool { return p.seed }

// IndexOf returns the lane index of inst, or -1.
func (p *Pack) IndexOf(inst *ir.Inst) int {
	for l, lane := range p.lanes {
		if lane == inst {
			return l
		}
	}
	return -1
}

// Type derives the pack kind from the first lane: collection accesses map
// to load/store, low-level opcodes map by opcode. An instruction outside
// that table means the producer fed us something the analysis was never
// taught, which is fatal.
func (p *Pack) Type() (PackType, error) {
	inst := p.lanes[0]
	switch inst.CollectionKind() {
	case ir.CollIndexRead:
		return PackLoad, nil
	case ir.CollIndexWrite:
		return PackStore, nil
	case ir.CollNone:
		// fall through to opcode dispatch
	default:
		return 0, &AnalysisError{
			Code:    ErrCodeUnknownKind,
			Message: fmt.Sprintf("collection instruction %s is not packable", inst),
		}
	}
	switch inst.Op() {
	case ir.OpAdd:
		return PackAdd, nil
	default:
		return 0, &AnalysisError{
			Code:    ErrCodeUnknownKind,
			Message: fmt.Sprintf("unknown instruction: %s", inst),
		}
	}
}

// key returns the value-identity of the pack: its lane ID sequence. Packs
// are equal iff their lane sequences are equal.
func (p *Pack) key() string {
	var b strings.Builder
	for l, lane := range p.lanes {
		if l > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(lane.ID()))
	}
	return b.String()
}

// DebugString renders the pack as "(%a0, %a1)".
func (p *Pack) DebugString() string {
	var b strings.Builder
	b.WriteByte('(')
	for l, lane := range p.lanes {
		if l > 0 {
			b.WriteString(", ")
		}
		b.WriteString(lane.Name())
	}
	b.WriteByte(')')
	return b.String()
}
