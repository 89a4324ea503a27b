package slp

import (
	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
)

// Seeder finds the initial 2-lane packs in a block.
//
// Candidates are bucketed by kind tag (collection family x element type) as
// they are visited, keeping separate left and right candidate pools; a
// committed pair consumes both instructions so each instruction joins at
// most one seed pack. Reads pair on
// adjacent constant indices over the same collection value; writes pair on
// adjacent constant indices where the right write mutates the sequence
// value produced by the left write.
type Seeder struct {
	oracle deps.Oracle

	readLeft   map[ir.KindTag][]*ir.Inst
	readRight  map[ir.KindTag][]*ir.Inst
	writeLeft  map[ir.KindTag][]*ir.Inst
	writeRight map[ir.KindTag][]*ir.Inst

	// kind tags in first-encounter order, reads and writes separately,
	// so seed discovery is deterministic
	readTags  []ir.KindTag
	writeTags []ir.KindTag
}

// NewSeeder creates a seeder consulting the given oracle. A nil oracle
// suppresses all read seeds (no independence information) and all write
// seeds.
func NewSeeder(oracle deps.Oracle) *Seeder {
	return &Seeder{
		oracle:     oracle,
		readLeft:   make(map[ir.KindTag][]*ir.Inst),
		readRight:  make(map[ir.KindTag][]*ir.Inst),
		writeLeft:  make(map[ir.KindTag][]*ir.Inst),
		writeRight: make(map[ir.KindTag][]*ir.Inst),
	}
}

// Visit classifies one instruction. Instructions that are not indexed
// accesses are ignored - they are extender material, not seed material.
func (s *Seeder) Visit(inst *ir.Inst) {
	tag := inst.KindTag()
	switch inst.CollectionKind() {
	case ir.CollIndexRead:
		if len(s.readLeft[tag]) == 0 && len(s.readRight[tag]) == 0 {
			s.readTags = append(s.readTags, tag)
		}
		s.readLeft[tag] = append(s.readLeft[tag], inst)
		s.readRight[tag] = append(s.readRight[tag], inst)
	case ir.CollIndexWrite:
		if len(s.writeLeft[tag]) == 0 && len(s.writeRight[tag]) == 0 {
			s.writeTags = append(s.writeTags, tag)
		}
		s.writeLeft[tag] = append(s.writeLeft[tag], inst)
		s.writeRight[tag] = append(s.writeRight[tag], inst)
	}
}

// VisitBlock classifies every instruction of a block in program order.
func (s *Seeder) VisitBlock(b *ir.Block) {
	for _, inst := range b.Insts() {
		s.Visit(inst)
	}
}

// PackSet pairs up the classified candidates and returns the seeded set.
// Every pack in the result is a 2-lane seed pack.
func (s *Seeder) PackSet() *PackSet {
	ps := NewPackSet()
	s.processReadSeeds(ps)
	s.processWriteSeeds(ps)
	return ps
}

// SeedBlock is the convenience entry point: classify a whole block and
// return the seeded pack set.
func SeedBlock(b *ir.Block, oracle deps.Oracle) *PackSet {
	s := NewSeeder(oracle)
	s.VisitBlock(b)
	return s.PackSet()
}

// indicesAdjacent reports whether two index values are adjacent. By
// convention this only holds when right = left + 1. Only integer constant
// pairs qualify; scev/pattern matching is future work.
func indicesAdjacent(left, right ir.Value) bool {
	l, ok := ir.AsIntConst(left)
	if !ok {
		return false
	}
	r, ok := ir.AsIntConst(right)
	if !ok {
		return false
	}
	return l+1 == r
}

func (s *Seeder) processReadSeeds(ps *PackSet) {
	for _, tag := range s.readTags {
		leftSet := s.readLeft[tag]
		rightSet := s.readRight[tag]
		if len(leftSet) == 0 || len(rightSet) == 0 {
			continue
		}

		// a committed pair consumes both instructions entirely: an
		// instruction sits in at most one pack, or the DAG's instruction
		// index would collide later
		consumed := make(map[*ir.Inst]bool)

		for _, left := range leftSet {
			if consumed[left] {
				continue
			}
			if left.NumDimensions() > 1 {
				// multi-dimensional accesses are deferred
				continue
			}
			leftIndex := left.IndexOfDimension(0)

			// erase the matched right only after the pair is committed,
			// so the scan never mutates the pool it is walking
			var matchedRight *ir.Inst
			for _, right := range rightSet {
				if consumed[right] || right == left {
					continue
				}
				if right.NumDimensions() != left.NumDimensions() {
					continue
				}
				rightIndex := right.IndexOfDimension(0)

				// adjacent indices reading the same collection value
				if !indicesAdjacent(leftIndex, rightIndex) {
					continue
				}
				if left.ObjectOperand() != right.ObjectOperand() {
					continue
				}
				if !deps.Independent(s.oracle, left, right) {
					continue
				}

				ps.InsertPair(left, right, true)
				consumed[left] = true
				matchedRight = right
				break
			}

			if matchedRight != nil {
				consumed[matchedRight] = true
			}
		}

		s.readLeft[tag] = compact(leftSet, consumed)
		s.readRight[tag] = compact(rightSet, consumed)
	}
}

func (s *Seeder) processWriteSeeds(ps *PackSet) {
	for _, tag := range s.writeTags {
		leftSet := s.writeLeft[tag]
		rightSet := s.writeRight[tag]
		if len(leftSet) == 0 || len(rightSet) == 0 {
			continue
		}

		consumed := make(map[*ir.Inst]bool)

		for _, left := range leftSet {
			if consumed[left] {
				continue
			}
			if left.NumDimensions() > 1 {
				continue
			}
			leftIndex := left.IndexOfDimension(0)

			var matchedRight *ir.Inst
			for _, right := range rightSet {
				if consumed[right] || right == left {
					continue
				}
				if right.NumDimensions() != left.NumDimensions() {
					continue
				}
				if !indicesAdjacent(leftIndex, right.IndexOfDimension(0)) {
					continue
				}

				// the right write must mutate the sequence value the left
				// write produced - that chain is what makes the pair
				// consecutive in data flow
				obj, ok := right.ObjectOperand().(*ir.Inst)
				if !ok || obj != left {
					continue
				}
				if !s.writesIndependent(left, right) {
					continue
				}

				ps.InsertPair(left, right, true)
				consumed[left] = true
				matchedRight = right
				break
			}

			if matchedRight != nil {
				consumed[matchedRight] = true
			}
		}

		s.writeLeft[tag] = compact(leftSet, consumed)
		s.writeRight[tag] = compact(rightSet, consumed)
	}
}

// writesIndependent checks ordering between two chained writes. The left
// write's value feeds the right write's object operand, so a forward data
// edge is expected and tolerated; any reverse edge, and any forward memory
// or control edge, rejects the pair. Without an oracle every pair is
// rejected.
func (s *Seeder) writesIndependent(left, right *ir.Inst) bool {
	if s.oracle == nil {
		return false
	}
	if s.oracle.HasDependence(right, left) {
		return false
	}
	if ko, ok := s.oracle.(deps.KindedOracle); ok {
		return !ko.HasDependenceOfKind(left, right, deps.Memory) &&
			!ko.HasDependenceOfKind(left, right, deps.Control)
	}
	return true
}

// compact returns the candidates that survived a pairing pass, preserving
// order.
func compact(in []*ir.Inst, removed map[*ir.Inst]bool) []*ir.Inst {
	if len(removed) == 0 {
		return in
	}
	out := in[:0:0]
	for _, inst := range in {
		if !removed[inst] {
			out = append(out, inst)
		}
	}
	return out
}
