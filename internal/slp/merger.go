package slp

import (
	"fmt"

	"github.com/roach88/slpvec/internal/ir"
)

// MergePacks coalesces packs whose trailing lane is the leading lane of
// another pack, to a fixed point. The shared boundary lane appears once in
// the merged pack.
//
// The merge is greedy: when several continuations share a boundary lane
// any one of them is taken, and the scan restarts because the set changed.
// The result is maximal under greedy merging, not globally longest.
// Running MergePacks on its own output is a no-op.
func MergePacks(ps *PackSet) (*PackSet, error) {
	dirty := true
	for dirty {
		dirty = false

	scan:
		for _, p1 := range ps.SortedPacks() {
			for _, p2 := range ps.SortedPacks() {
				if p1 == p2 || p1.Last() != p2.First() {
					continue
				}

				if p1.Seed() && !p2.Seed() {
					// seed packs come from the seeder alone and only ever
					// chain with other seeds; anything else is corruption
					return nil, &AnalysisError{
						Code:    ErrCodeSeedChain,
						Message: fmt.Sprintf("seed pack %s chains into non-seed pack", p1.DebugString()),
						Pack:    p2.DebugString(),
					}
				}

				ps.Remove(p1)
				ps.Remove(p2)
				ps.Insert(mergePair(p1, p2))

				dirty = true
				break scan
			}
		}
	}
	return ps, nil
}

// mergePair concatenates p2 onto p1, keeping the shared boundary lane once.
func mergePair(p1, p2 *Pack) *Pack {
	lanes := make([]*ir.Inst, 0, p1.NumLanes()+p2.NumLanes()-1)
	lanes = append(lanes, p1.Lanes()...)
	lanes = append(lanes, p2.Lanes()[1:]...)
	return newPack(lanes, p1.Seed())
}
