// Package packdag materializes the producer/consumer graph over a block's
// final packs.
//
// Each node owns one pack. For every (operand position, lane) of a node the
// graph records which other node - and which of its lanes - produces that
// operand, discovered from the IR's def-use structure when the node is
// added. Adding a node also patches the operand tables of nodes that
// consume its lanes, so insertion order only has to respect availability:
// clients add producers before consumers and the graph never sorts.
//
// The graph is the contract handed to code generation: a codegen walks
// Nodes() (reverse insertion order, approximately top-of-DAG first), emits
// one vector instruction per node, and uses the operand tables to wire
// shuffles and broadcasts.
//
// Ownership is simple Go reachability: the DAG's node list keeps every
// node alive, and producer/consumer back-references are plain pointers.
package packdag
