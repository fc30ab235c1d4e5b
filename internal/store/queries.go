package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Run operations

// InsertRun stores a run with its itemsets and rules in a single transaction.
// Run.ItemsetCount and Run.RuleCount are taken from the slices given.
func (s *Store) InsertRun(run *Run, itemsets []ItemsetRecord, rules []RuleRecord) error {
	universeJSON, err := json.Marshal(run.Universe)
	if err != nil {
		return fmt.Errorf("failed to marshal universe: %w", err)
	}

	run.ItemsetCount = len(itemsets)
	run.RuleCount = len(rules)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO runs
		(id, dataset, strategy, transaction_count, universe, min_support, support_threshold,
		 min_confidence, started_at, duration_ns, itemset_count, rule_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Dataset,
		run.Strategy,
		run.TransactionCount,
		string(universeJSON),
		run.MinSupport,
		run.SupportThreshold,
		run.MinConfidence,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		int64(run.Duration),
		run.ItemsetCount,
		run.RuleCount,
	)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("failed to insert run %s: %w", run.ID, classify(err))
	}

	itemStmt, err := tx.Prepare(`INSERT INTO run_itemsets (run_id, position, items, size, support) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("failed to prepare itemset insert: %w", err)
	}
	defer itemStmt.Close()

	for i, rec := range itemsets {
		itemsJSON, err := json.Marshal(rec.Items)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("failed to marshal itemset: %w", err)
		}
		if _, err := itemStmt.Exec(run.ID, i, string(itemsJSON), len(rec.Items), rec.Support); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("failed to insert itemset %d of run %s: %w", i, run.ID, err)
		}
	}

	ruleStmt, err := tx.Prepare(`
		INSERT INTO run_rules (run_id, position, antecedent, consequent, support, antecedent_support, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("failed to prepare rule insert: %w", err)
	}
	defer ruleStmt.Close()

	for i, rec := range rules {
		anteJSON, err := json.Marshal(rec.Antecedent)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("failed to marshal antecedent: %w", err)
		}
		consJSON, err := json.Marshal(rec.Consequent)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("failed to marshal consequent: %w", err)
		}
		if _, err := ruleStmt.Exec(run.ID, i, string(anteJSON), string(consJSON), rec.Support, rec.AntecedentSupport, rec.Confidence); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("failed to insert rule %d of run %s: %w", i, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}

	return nil
}

const runColumns = `id, dataset, strategy, transaction_count, universe, min_support, support_threshold,
		min_confidence, started_at, duration_ns, itemset_count, rule_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var universeJSON, startedAt string
	var durationNS int64

	err := row.Scan(
		&run.ID,
		&run.Dataset,
		&run.Strategy,
		&run.TransactionCount,
		&universeJSON,
		&run.MinSupport,
		&run.SupportThreshold,
		&run.MinConfidence,
		&startedAt,
		&durationNS,
		&run.ItemsetCount,
		&run.RuleCount,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at for %s: %w", run.ID, err)
	}
	run.Duration = time.Duration(durationNS)

	if err := json.Unmarshal([]byte(universeJSON), &run.Universe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal universe for %s: %w", run.ID, err)
	}

	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, classify(err))
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", classify(err))
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRunItemsets returns a run's itemsets in the order they were mined.
func (s *Store) GetRunItemsets(runID string) ([]ItemsetRecord, error) {
	rows, err := s.db.Query(`
		SELECT items, support
		FROM run_itemsets
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get itemsets for run %s: %w", runID, classify(err))
	}
	defer rows.Close()

	var out []ItemsetRecord
	for rows.Next() {
		var rec ItemsetRecord
		var itemsJSON string
		if err := rows.Scan(&itemsJSON, &rec.Support); err != nil {
			return nil, fmt.Errorf("failed to scan itemset row: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal itemset: %w", err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itemsets: %w", err)
	}

	return out, nil
}

// GetRunRules returns a run's rules in the order they were generated.
func (s *Store) GetRunRules(runID string) ([]RuleRecord, error) {
	rows, err := s.db.Query(`
		SELECT antecedent, consequent, support, antecedent_support, confidence
		FROM run_rules
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules for run %s: %w", runID, classify(err))
	}
	defer rows.Close()

	var out []RuleRecord
	for rows.Next() {
		var rec RuleRecord
		var anteJSON, consJSON string
		if err := rows.Scan(&anteJSON, &consJSON, &rec.Support, &rec.AntecedentSupport, &rec.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		if err := json.Unmarshal([]byte(anteJSON), &rec.Antecedent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal antecedent: %w", err)
		}
		if err := json.Unmarshal([]byte(consJSON), &rec.Consequent); err != nil {
			return nil, fmt.Errorf("failed to unmarshal consequent: %w", err)
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return out, nil
}

// DeleteRun removes a run together with its itemsets and rules.
func (s *Store) DeleteRun(id string) error {
	result, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return nil
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", classify(err))
	}
	return n, nil
}
