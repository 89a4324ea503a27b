// Package ir implements the collection-augmented straight-line IR that the
// pack analysis runs over.
//
// The IR is a thin SSA-style layer: a Block holds an ordered list of
// instructions, every instruction produces at most one value, and operands
// are Values - either another instruction, a signed integer constant, or an
// opaque parameter (e.g. a collection passed into the block from outside).
//
// On top of the low-level arithmetic opcodes the IR carries high-level
// collection operations: allocate-sequence, indexed read, indexed write.
// These expose extra introspection (CollectionKind, NumDimensions,
// ObjectOperand, IndexOfDimension) that the seeder keys on.
//
// DESIGN CONSTRAINTS:
//
// Immutability: once built, instructions are never mutated by analyses.
// Analyses reference instructions by pointer; Inst.ID gives a dense stable
// identifier for serialization and set keys.
//
// Use lists: the Builder maintains def-use edges as instructions are
// appended. Uses(i) enumerates (user, operand position) pairs in program
// order, which keeps downstream graph construction deterministic.
//
// The package also provides canonical JSON serialization and
// domain-separated hashing (canonical.go, hash.go) used to fingerprint
// analysis results for determinism checks and run storage.
package ir
