package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("store: run not found")

// RunRecord is a stored run header.
type RunRecord struct {
	RunID     string `json:"run_id"`
	BlockName string `json:"block_name"`
	BlockHash string `json:"block_hash"`
	DAGHash   string `json:"dag_hash"`
	Seeds     int    `json:"seeds"`
	Extended  int    `json:"extended"`
	Merged    int    `json:"merged"`
	Nodes     int    `json:"nodes"`
	CreatedAt string `json:"created_at"`
}

// PackRecord is one stored pack.
type PackRecord struct {
	Position int      `json:"position"`
	Kind     string   `json:"kind"`
	Seed     bool     `json:"seed"`
	Lanes    []string `json:"lanes"`
}

// EdgeRecord is one stored producer edge.
type EdgeRecord struct {
	Consumer     int `json:"consumer"`
	Operand      int `json:"operand"`
	Lane         int `json:"lane"`
	Producer     int `json:"producer"`
	ProducerLane int `json:"producer_lane"`
}

// TraceRecord is one stored trace event.
type TraceRecord struct {
	Seq    int64  `json:"seq"`
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// ReadRun loads a run header by ID.
func (s *Store) ReadRun(ctx context.Context, runID string) (*RunRecord, error) {
	var rec RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, block_name, block_hash, dag_hash, seeds, extended, merged, nodes, created_at
		FROM runs WHERE run_id = ?
	`, runID).Scan(
		&rec.RunID, &rec.BlockName, &rec.BlockHash, &rec.DAGHash,
		&rec.Seeds, &rec.Extended, &rec.Merged, &rec.Nodes, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns stored run headers for a block fingerprint, newest
// first. An empty blockHash lists every run.
func (s *Store) ListRuns(ctx context.Context, blockHash string) ([]RunRecord, error) {
	query := `
		SELECT run_id, block_name, block_hash, dag_hash, seeds, extended, merged, nodes, created_at
		FROM runs
	`
	var args []any
	if blockHash != "" {
		query += " WHERE block_hash = ?"
		args = append(args, blockHash)
	}
	query += " ORDER BY run_id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.BlockName, &rec.BlockHash, &rec.DAGHash,
			&rec.Seeds, &rec.Extended, &rec.Merged, &rec.Nodes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReadPacks loads a run's packs in node order.
func (s *Store) ReadPacks(ctx context.Context, runID string) ([]PackRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, kind, seed, lanes FROM packs
		WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read packs: %w", err)
	}
	defer rows.Close()

	var out []PackRecord
	for rows.Next() {
		var rec PackRecord
		var lanesJSON string
		if err := rows.Scan(&rec.Position, &rec.Kind, &rec.Seed, &lanesJSON); err != nil {
			return nil, fmt.Errorf("read packs: %w", err)
		}
		if err := json.Unmarshal([]byte(lanesJSON), &rec.Lanes); err != nil {
			return nil, fmt.Errorf("read packs: lanes: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReadEdges loads a run's producer edges in (consumer, operand, lane) order.
func (s *Store) ReadEdges(ctx context.Context, runID string) ([]EdgeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT consumer, operand, lane, producer, producer_lane FROM edges
		WHERE run_id = ? ORDER BY consumer, operand, lane
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read edges: %w", err)
	}
	defer rows.Close()

	var out []EdgeRecord
	for rows.Next() {
		var rec EdgeRecord
		if err := rows.Scan(&rec.Consumer, &rec.Operand, &rec.Lane, &rec.Producer, &rec.ProducerLane); err != nil {
			return nil, fmt.Errorf("read edges: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReadTrace loads a run's trace events in seq order.
func (s *Store) ReadTrace(ctx context.Context, runID string) ([]TraceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, stage, detail FROM trace_events
		WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	defer rows.Close()

	var out []TraceRecord
	for rows.Next() {
		var rec TraceRecord
		if err := rows.Scan(&rec.Seq, &rec.Stage, &rec.Detail); err != nil {
			return nil, fmt.Errorf("read trace: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
