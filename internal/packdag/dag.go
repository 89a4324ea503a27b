package packdag

import (
	"fmt"
	"sort"

	"github.com/roach88/slpvec/internal/ir"
	"github.com/roach88/slpvec/internal/slp"
)

// laneRef locates an instruction inside the graph: its node and lane.
type laneRef struct {
	node *Node
	lane int
}

// DAG owns the pack nodes of one block. Nodes are stored in insertion
// order; clients add producers before their consumers (the graph does not
// topologically sort).
type DAG struct {
	nodes []*Node
	seeds []*Node

	// instruction -> (node, lane) owning it
	instIndex map[*ir.Inst]laneRef
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{instIndex: make(map[*ir.Inst]laneRef)}
}

// Len returns the node count.
func (g *DAG) Len() int { return len(g.nodes) }

// Nodes returns the nodes in reverse insertion order, approximating a
// top-of-DAG-first traversal for consumers.
func (g *DAG) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	for i, n := range g.nodes {
		out[len(g.nodes)-1-i] = n
	}
	return out
}

// NodesInsertionOrder returns the nodes oldest first. Serialization uses
// this so output is stable.
func (g *DAG) NodesInsertionOrder() []*Node {
	return append([]*Node(nil), g.nodes...)
}

// Seeds returns the seed nodes in insertion order.
func (g *DAG) Seeds() []*Node {
	return append([]*Node(nil), g.seeds...)
}

// Lookup returns the node and lane owning an instruction.
func (g *DAG) Lookup(inst *ir.Inst) (*Node, int, bool) {
	ref, ok := g.instIndex[inst]
	if !ok {
		return nil, 0, false
	}
	return ref.node, ref.lane, true
}

// AddNode adds a pack to the graph, computing its operand producers from
// the IR and patching the operand tables of nodes that consume its lanes.
func (g *DAG) AddNode(pack *slp.Pack) (*Node, error) {
	typ, err := pack.Type()
	if err != nil {
		return nil, &BuildError{
			Code:    ErrCodeUnknownKind,
			Message: err.Error(),
			Pack:    pack.DebugString(),
		}
	}

	node := newNode(pack, typ, g, len(g.nodes))

	// claim the lanes; an instruction may be owned by one node only
	for l, inst := range pack.Lanes() {
		if prev, ok := g.instIndex[inst]; ok {
			g.unclaim(node)
			return nil, &BuildError{
				Code: ErrCodeLaneConflict,
				Message: fmt.Sprintf("instruction %s already owned by node %d lane %d",
					inst.Name(), prev.node.index, prev.lane),
				Pack: pack.DebugString(),
			}
		}
		g.instIndex[inst] = laneRef{node: node, lane: l}
	}

	if err := g.initOperandMap(node); err != nil {
		g.unclaim(node)
		return nil, err
	}
	if err := g.updateConsumerMaps(node); err != nil {
		g.unclaim(node)
		return nil, err
	}

	g.nodes = append(g.nodes, node)
	if pack.Seed() {
		g.seeds = append(g.seeds, node)
	}
	return node, nil
}

// unclaim rolls the instruction index back after a failed AddNode so the
// graph stays usable for diagnostics.
func (g *DAG) unclaim(node *Node) {
	for _, inst := range node.pack.Lanes() {
		if ref, ok := g.instIndex[inst]; ok && ref.node == node {
			delete(g.instIndex, inst)
		}
	}
}

// skipSelfReference reports whether a producer/consumer self-pairing is the
// tolerated store idiom: a store lane consuming its own pack's lane through
// the collection object operand.
func skipSelfReference(producer, consumer *Node) bool {
	return producer == consumer && producer.Type() == slp.PackStore
}

// initOperandMap fills the new node's operand table from the IR: for every
// (operand, lane) whose defining instruction is already packed, record the
// producing node and lane.
func (g *DAG) initOperandMap(node *Node) error {
	for o := 0; o < node.NumOperands(); o++ {
		for l := 0; l < node.NumLanes(); l++ {
			inst := node.pack.Lane(l)

			opInst, ok := ir.AsInst(inst.Operand(o))
			if !ok {
				continue
			}
			ref, ok := g.instIndex[opInst]
			if !ok {
				continue
			}

			if skipSelfReference(ref.node, node) {
				// the store's own lane feeds its object operand; leave
				// the slot empty
				continue
			}
			if ref.node == node {
				return &BuildError{
					Code:    ErrCodeSelfCycle,
					Message: "pack references itself",
					Pack:    node.pack.DebugString(),
				}
			}

			node.operands[o][l] = Producer{Node: ref.node, Lane: ref.lane}
			node.producers[ref.node] = struct{}{}
			ref.node.consumers[node] = struct{}{}
		}
	}
	return nil
}

// updateConsumerMaps patches nodes already in the graph that consume the
// new node's lanes.
func (g *DAG) updateConsumerMaps(node *Node) error {
	for l := 0; l < node.NumLanes(); l++ {
		inst := node.pack.Lane(l)

		for _, use := range inst.Uses() {
			ref, ok := g.instIndex[use.User]
			if !ok {
				continue
			}

			if skipSelfReference(node, ref.node) {
				continue
			}
			if ref.node == node {
				return &BuildError{
					Code:    ErrCodeSelfCycle,
					Message: "pack references itself",
					Pack:    node.pack.DebugString(),
				}
			}

			ref.node.operands[use.OperandNo][ref.lane] = Producer{Node: node, Lane: l}
			ref.node.producers[node] = struct{}{}
			node.consumers[ref.node] = struct{}{}
		}
	}
	return nil
}

// sortNodes renders a node set in insertion order.
func (g *DAG) sortNodes(set map[*Node]struct{}) []*Node {
	out := make([]*Node, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}
