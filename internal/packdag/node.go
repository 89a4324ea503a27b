package packdag

import (
	"github.com/roach88/slpvec/internal/slp"
)

// Producer identifies which node, and which of its lanes, supplies a value.
// The zero Producer means "no packed producer" - the operand comes from a
// scalar, a constant, or an unpacked instruction.
type Producer struct {
	Node *Node
	Lane int
}

// Valid reports whether the producer slot is filled.
func (p Producer) Valid() bool { return p.Node != nil }

// Node is one pack in the graph.
type Node struct {
	pack *slp.Pack
	typ  slp.PackType

	// operands[o][l] names the producer of operand o for lane l.
	// Dimensions are NumOperands x NumLanes; empty slots stay zero.
	operands [][]Producer

	// producers create values we use; consumers use our values
	producers map[*Node]struct{}
	consumers map[*Node]struct{}

	graph *DAG
	index int // insertion position in the graph
}

func newNode(pack *slp.Pack, typ slp.PackType, graph *DAG, index int) *Node {
	operands := make([][]Producer, pack.NumOperands())
	for o := range operands {
		operands[o] = make([]Producer, pack.NumLanes())
	}
	return &Node{
		pack:      pack,
		typ:       typ,
		operands:  operands,
		producers: make(map[*Node]struct{}),
		consumers: make(map[*Node]struct{}),
		graph:     graph,
		index:     index,
	}
}

// Pack returns the node's pack.
func (n *Node) Pack() *slp.Pack { return n.pack }

// Index returns the node's insertion position in its graph.
func (n *Node) Index() int { return n.index }

// Graph returns the owning DAG.
func (n *Node) Graph() *DAG { return n.graph }

// Type returns the pack kind.
func (n *Node) Type() slp.PackType { return n.typ }

// Seed reports whether the node's pack is a seed pack.
func (n *Node) Seed() bool { return n.pack.Seed() }

// NumLanes returns the pack's lane count.
func (n *Node) NumLanes() int { return n.pack.NumLanes() }

// NumOperands returns the pack's operand arity.
func (n *Node) NumOperands() int { return n.pack.NumOperands() }

// OperandProducer returns the producer of operand o for lane l.
func (n *Node) OperandProducer(o, l int) Producer { return n.operands[o][l] }

// Producers returns the nodes that produce data this node uses.
func (n *Node) Producers() []*Node { return n.graph.sortNodes(n.producers) }

// Consumers returns the nodes that use this node's data.
func (n *Node) Consumers() []*Node { return n.graph.sortNodes(n.consumers) }
