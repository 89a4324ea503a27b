// Package store persists analysis runs to SQLite for offline inspection.
//
// The store is strictly a recording layer: the analysis itself holds no
// persistent state and never reads from the store. A recorded run captures
// the input block's fingerprint, the final packs, the DAG's edge set, and
// the stage trace, keyed by the run's UUIDv7 ID. The CLI writes runs with
// analyze --db; the CLI has no command that reads them back. ReadRun,
// ReadPacks, ReadEdges, ReadTrace and ListRuns load stored runs, and
// ListRuns filters by block fingerprint.
//
// The database uses WAL mode with a single writer, matching SQLite's
// concurrency model.
package store
