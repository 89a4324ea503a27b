// Package slp discovers superword-level parallelism in a single straight-line
// block of the collection IR.
//
// The analysis runs in three stages over one block:
//
//  1. Seeder - scans the block for adjacent indexed reads of the same
//     collection and adjacent indexed writes chained through a sequence
//     value, emitting 2-lane seed packs.
//  2. Extender - grows the pack set along use-def and def-use chains,
//     packing operand pairs and user pairs that are isomorphic and
//     independent under the dependence oracle.
//  3. Merger - concatenates packs whose boundary lanes touch, producing
//     longer runs.
//
// The output pack set is handed to the packdag package, which materializes
// the producer/consumer graph consumed by code generation.
//
// DETERMINISM:
//
// Pack sets are sets - iteration order is not part of the contract. Where
// the implementation needs an order (driving the extender's fixed point,
// feeding the DAG builder), it sorts by first-lane block position so that
// two runs over the same block make identical decisions.
//
// All stages are local: a pair that cannot be packed is simply skipped.
// The only hard failures are invariant violations (an unknown instruction
// kind in pack-type inference, a seed pack chained to a non-seed pack),
// surfaced as AnalysisError values.
package slp
