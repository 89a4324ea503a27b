package packdag

import (
	"github.com/roach88/slpvec/internal/ir"
)

// Snapshot renders the graph's structure as a canonical-JSON-ready value:
// node list in insertion order, edge list in (consumer, operand, lane)
// order. Structurally identical graphs snapshot identically, which is what
// the determinism tests and the run store key on.
func (g *DAG) Snapshot() map[string]any {
	nodes := make([]any, 0, len(g.nodes))
	edges := make([]any, 0)

	for _, n := range g.nodes {
		laneNames := make([]any, n.NumLanes())
		for l := 0; l < n.NumLanes(); l++ {
			laneNames[l] = n.pack.Lane(l).Name()
		}
		nodes = append(nodes, map[string]any{
			"kind":  n.typ.String(),
			"seed":  n.Seed(),
			"lanes": laneNames,
		})

		for o := 0; o < n.NumOperands(); o++ {
			for l := 0; l < n.NumLanes(); l++ {
				prod := n.operands[o][l]
				if !prod.Valid() {
					continue
				}
				edges = append(edges, map[string]any{
					"consumer":      n.index,
					"operand":       o,
					"lane":          l,
					"producer":      prod.Node.index,
					"producer_lane": prod.Lane,
				})
			}
		}
	}

	return map[string]any{
		"nodes": nodes,
		"edges": edges,
	}
}

// Fingerprint content-addresses the snapshot.
func (g *DAG) Fingerprint() (string, error) {
	return ir.HashSnapshot(ir.DomainDAG, g.Snapshot())
}
