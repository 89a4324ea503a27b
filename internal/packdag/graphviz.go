package packdag

import (
	"fmt"
	"strings"
)

// lanePair is one lane relation on a collapsed producer/consumer arc: all
// relations between the same pair of nodes render as one labeled edge.
type lanePair struct {
	producerLane int
	consumerLane int
}

// ToGraphviz renders the graph for inspection with dot(1). Nodes become
// boxes labeled "(kind)  inst0, inst1, ..." with a green border for seeds;
// one edge per producer/consumer pair, labeled with its lane pairs.
//
// Output is deterministic: nodes in insertion order, each node's incoming
// edges in the order their producers first appear in an operand-major scan
// of its operand table, lane pairs in operand-major order.
func (g *DAG) ToGraphviz() string {
	var b strings.Builder
	b.WriteString("digraph G {\n")

	for _, node := range g.nodes {
		emitNodeDecl(&b, node)

		// collect lane relations per producer
		pairs := make(map[*Node][]lanePair)
		var order []*Node
		for o := 0; o < node.NumOperands(); o++ {
			for l := 0; l < node.NumLanes(); l++ {
				prod := node.operands[o][l]
				if !prod.Valid() {
					continue
				}
				if _, seen := pairs[prod.Node]; !seen {
					order = append(order, prod.Node)
				}
				pairs[prod.Node] = append(pairs[prod.Node], lanePair{
					producerLane: prod.Lane,
					consumerLane: l,
				})
			}
		}

		for _, prod := range order {
			emitEdge(&b, prod, node, pairs[prod])
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// DebugString is the graph's debug rendering; GraphViz doubles as it.
func (g *DAG) DebugString() string { return g.ToGraphviz() }

func nodeName(n *Node) string {
	return fmt.Sprintf("node%d", n.index)
}

func nodeLabel(n *Node) string {
	names := make([]string, n.NumLanes())
	for l := 0; l < n.NumLanes(); l++ {
		names[l] = n.pack.Lane(l).Name()
	}
	return fmt.Sprintf("(%s)  %s", n.typ, strings.Join(names, ", "))
}

func emitNodeDecl(b *strings.Builder, n *Node) {
	fmt.Fprintf(b, "%s [label=%q", nodeName(n), nodeLabel(n))
	if n.Seed() {
		b.WriteString(", color=green")
	}
	b.WriteString(", shape=box];\n")
}

func emitEdge(b *strings.Builder, src, dest *Node, pairs []lanePair) {
	rendered := make([]string, len(pairs))
	for i, p := range pairs {
		rendered[i] = fmt.Sprintf("(%d, %d)", p.producerLane, p.consumerLane)
	}
	fmt.Fprintf(b, "%s -> %s [label=\"{%s}\"];\n",
		nodeName(src), nodeName(dest), strings.Join(rendered, " "))
}
