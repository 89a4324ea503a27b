package slp

import (
	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
)

// RankUsers orders candidate def-use extensions. The SLP paper picks the
// user pair with the largest estimated savings; without a cost model the
// extender takes the first candidate. A future cost model plugs in here.
type RankUsers func(candidates [][2]*ir.Inst) [2]*ir.Inst

// Extender grows a seeded pack set along use-def and def-use chains.
//
// Every instruction in the block may serve as the left lane of at most one
// pack and the right lane of at most one pack. The free sets track which
// slots are still open; they shrink monotonically, which bounds the fixed
// point at |block| iterations.
type Extender struct {
	packSet *PackSet
	oracle  deps.Oracle

	freeLeft  map[*ir.Inst]bool
	freeRight map[*ir.Inst]bool

	rank RankUsers // nil = first fit
}

// NewExtender prepares an extender over a block and an existing (normally
// seeded) pack set. Instructions already packed are withdrawn from the
// free sets.
func NewExtender(b *ir.Block, ps *PackSet, oracle deps.Oracle) *Extender {
	e := &Extender{
		packSet:   ps,
		oracle:    oracle,
		freeLeft:  make(map[*ir.Inst]bool, b.Len()),
		freeRight: make(map[*ir.Inst]bool, b.Len()),
	}
	for _, inst := range b.Insts() {
		e.freeLeft[inst] = true
		e.freeRight[inst] = true
	}
	for _, p := range ps.Packs() {
		delete(e.freeLeft, p.Lane(0))
		delete(e.freeRight, p.Lane(1))
	}
	return e
}

// SetRank installs a ranking callback for def-use extension.
func (e *Extender) SetRank(rank RankUsers) { e.rank = rank }

// Extend runs the fixed point: as long as some pack can pull an operand
// pair or user pair into the set, restart the scan. Restarting is a
// correctness requirement - the scan iterates the very set it mutates.
func (e *Extender) Extend() {
	changed := true
	for changed {
		changed = false
		for _, p := range e.packSet.SortedPacks() {
			if e.followDefUses(p) || e.followUseDefs(p) {
				changed = true
				break
			}
		}
	}
}

// isIsomorphic does a basic check that both instructions perform the same
// operation. Operand-order normalization is the producer's responsibility.
func (e *Extender) isIsomorphic(a, b *ir.Inst) bool {
	return a.Op() == b.Op()
}

// canPack gates a candidate pair: both slots free, distinct instructions,
// isomorphic, and independent under the oracle.
func (e *Extender) canPack(a, b *ir.Inst) bool {
	if !e.freeLeft[a] || !e.freeRight[b] {
		return false
	}
	if a == b {
		// a pack must hold two distinct instructions; allowing (x, x)
		// would later collide in the DAG's instruction index
		return false
	}
	return e.isIsomorphic(a, b) && deps.Independent(e.oracle, a, b)
}

// insert commits a new pair and claims its free slots.
func (e *Extender) insert(left, right *ir.Inst) {
	e.packSet.InsertPair(left, right, false)
	delete(e.freeLeft, left)
	delete(e.freeRight, right)
}

// followUseDefs walks the operands of a pack's lanes: if the lanes'
// definitions at the same operand position can pack, they do. Several
// operand positions can extend in a single invocation.
func (e *Extender) followUseDefs(p *Pack) bool {
	left, right := p.Lane(0), p.Lane(1)

	changed := false
	for i := 0; i < left.NumOperands(); i++ {
		opL, ok := ir.AsInst(left.Operand(i))
		if !ok {
			continue
		}
		opR, ok := ir.AsInst(right.Operand(i))
		if !ok {
			continue
		}
		if e.canPack(opL, opR) {
			e.insert(opL, opR)
			changed = true
		}
	}
	return changed
}

// followDefUses walks the users of a pack's lanes, looking for a user pair
// that consumes the lanes at the same operand position. The first
// packable pair wins (see RankUsers).
func (e *Extender) followDefUses(p *Pack) bool {
	left, right := p.Lane(0), p.Lane(1)

	var candidates [][2]*ir.Inst
	for _, lu := range left.Uses() {
		userL := lu.User
		for _, ru := range right.Uses() {
			userR := ru.User
			if userL == userR {
				// a pack cannot hold the same instruction twice
				continue
			}
			if userL.NumOperands() != userR.NumOperands() {
				continue
			}

			// the users must consume the pack's lanes in matching
			// operand positions
			matched := false
			for i := 0; i < userL.NumOperands(); i++ {
				opL, okL := ir.AsInst(userL.Operand(i))
				opR, okR := ir.AsInst(userR.Operand(i))
				if okL && okR && opL == left && opR == right {
					matched = true
					break
				}
			}
			if !matched || !e.canPack(userL, userR) {
				continue
			}

			if e.rank == nil {
				e.insert(userL, userR)
				return true
			}
			candidates = append(candidates, [2]*ir.Inst{userL, userR})
		}
	}

	if len(candidates) > 0 {
		best := e.rank(candidates)
		e.insert(best[0], best[1])
		return true
	}
	return false
}
