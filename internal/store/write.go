package store

import (
	"context"
	"fmt"

	"github.com/roach88/slpvec/internal/ir"
	"github.com/roach88/slpvec/internal/pipeline"
)

// WriteRun records one pipeline result. The whole run is written in a
// single transaction; a duplicate run ID is silently ignored (runs are
// content-stamped by UUIDv7, so a collision means the same run was
// recorded twice).
func (s *Store) WriteRun(ctx context.Context, res *pipeline.Result) error {
	blockHash, err := ir.BlockFingerprint(res.Block)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	dagHash, err := res.DAG.Fingerprint()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, block_name, block_hash, dag_hash, seeds, extended, merged, nodes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		res.RunID,
		res.Block.Name(),
		blockHash,
		dagHash,
		res.Stats.Seeds,
		res.Stats.Extended,
		res.Stats.Merged,
		res.Stats.Nodes,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// already recorded
		return nil
	}

	for position, node := range res.DAG.NodesInsertionOrder() {
		lanes := make([]any, node.NumLanes())
		for l := 0; l < node.NumLanes(); l++ {
			lanes[l] = node.Pack().Lane(l).Name()
		}
		lanesJSON, err := ir.MarshalCanonical(lanes)
		if err != nil {
			return fmt.Errorf("write run: pack %d: %w", position, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO packs (run_id, position, kind, seed, lanes)
			VALUES (?, ?, ?, ?, ?)
		`,
			res.RunID, position, node.Type().String(), node.Seed(), string(lanesJSON),
		)
		if err != nil {
			return fmt.Errorf("write run: pack %d: %w", position, err)
		}

		for o := 0; o < node.NumOperands(); o++ {
			for l := 0; l < node.NumLanes(); l++ {
				prod := node.OperandProducer(o, l)
				if !prod.Valid() {
					continue
				}
				_, err = tx.ExecContext(ctx, `
					INSERT INTO edges (run_id, consumer, operand, lane, producer, producer_lane)
					VALUES (?, ?, ?, ?, ?, ?)
				`,
					res.RunID, position, o, l, prod.Node.Index(), prod.Lane,
				)
				if err != nil {
					return fmt.Errorf("write run: edge: %w", err)
				}
			}
		}
	}

	for _, ev := range res.Trace {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trace_events (run_id, seq, stage, detail)
			VALUES (?, ?, ?, ?)
		`,
			res.RunID, ev.Seq, string(ev.Stage), ev.Detail,
		)
		if err != nil {
			return fmt.Errorf("write run: trace: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}
