// Package pipeline drives the full pack analysis over one basic block:
// seed, extend, merge, then build the pack DAG.
//
// The pipeline is single-threaded and runs to completion per block; no
// state survives between blocks. Each run is stamped with a UUIDv7 run ID
// and emits an ordered trace of stage events, both of which the run store
// and the CLI surface for inspection.
//
// Pack ordering into the DAG: the DAG builder requires producers before
// consumers and does not sort. The pipeline feeds packs in first-lane
// block position order, which in straight-line SSA places every
// definition before its uses.
package pipeline
