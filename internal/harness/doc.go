// Package harness runs conformance scenarios for the pack analysis.
//
// A scenario is a YAML file holding a block fixture, the packs the
// pipeline is expected to produce, and optionally the name of a golden
// file for the DAG's GraphViz rendering. Scenarios keep the canonical
// behaviors (adjacent, non-adjacent and memory-ordered reads, the full
// read/add/write kernel, dependent pairs, the store self-operand idiom)
// executable as data
// instead of hand-written test bodies.
//
// Golden files live in testdata/golden and are compared with goldie;
// regenerate with:
//
//	go test ./internal/harness -update
package harness
