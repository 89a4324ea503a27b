package slp

import (
	"sort"
	"strings"

	"github.com/roach88/slpvec/internal/ir"
)

// PackSet is a set of packs with value equality: two packs with the same
// lane sequence are the same element. Iteration order over Packs() is
// unspecified; SortedPacks() gives a deterministic order for driving
// downstream stages.
type PackSet struct {
	packs map[string]*Pack
}

// NewPackSet creates an empty pack set.
func NewPackSet() *PackSet {
	return &PackSet{packs: make(map[string]*Pack)}
}

// InsertPair creates a 2-lane pack and inserts it.
func (ps *PackSet) InsertPair(left, right *ir.Inst, seed bool) *Pack {
	p := NewPair(left, right, seed)
	ps.packs[p.key()] = p
	return p
}

// Insert adds an existing pack.
func (ps *PackSet) Insert(p *Pack) {
	ps.packs[p.key()] = p
}

// Remove deletes a pack. Removing a pack that is not in the set is a no-op.
func (ps *PackSet) Remove(p *Pack) {
	delete(ps.packs, p.key())
}

// Contains reports whether an equal pack is in the set.
func (ps *PackSet) Contains(p *Pack) bool {
	_, ok := ps.packs[p.key()]
	return ok
}

// Len returns the number of packs.
func (ps *PackSet) Len() int { return len(ps.packs) }

// Packs returns the packs in unspecified order.
func (ps *PackSet) Packs() []*Pack {
	out := make([]*Pack, 0, len(ps.packs))
	for _, p := range ps.packs {
		out = append(out, p)
	}
	return out
}

// SortedPacks returns the packs ordered by first-lane block position, ties
// broken by the full lane key. In straight-line SSA this places producers
// before their consumers, which is the order the DAG builder expects.
func (ps *PackSet) SortedPacks() []*Pack {
	out := ps.Packs()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.First().ID() != b.First().ID() {
			return a.First().ID() < b.First().ID()
		}
		return a.key() < b.key()
	})
	return out
}

// DebugString renders the set as "{\n  (...)\n  (...)\n}" in sorted order.
func (ps *PackSet) DebugString() string {
	if len(ps.packs) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range ps.SortedPacks() {
		b.WriteString("  ")
		b.WriteString(p.DebugString())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
