package snapshots

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// CreateSnapshot writes the run with the given ID to <dir>/<id>.json and
// returns the file path. The file is written to a temporary name and
// renamed into place.
func (m *Manager) CreateSnapshot(runID string) (string, error) {
	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(m.snapshotDir, runID+".json")
	tmp, err := os.CreateTemp(m.snapshotDir, ".snapshot-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.WriteSnapshot(runID, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return path, nil
}

// WriteSnapshot encodes the run with the given ID as indented JSON.
func (m *Manager) WriteSnapshot(runID string, w io.Writer) error {
	data, err := m.build(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

func (m *Manager) build(runID string) (*SnapshotData, error) {
	run, err := m.store.GetRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	itemsets, err := m.store.GetRunItemsets(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get itemsets: %w", err)
	}
	rules, err := m.store.GetRunRules(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules: %w", err)
	}

	data := &SnapshotData{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Run: RunSnapshot{
			ID:               run.ID,
			Dataset:          run.Dataset,
			Strategy:         run.Strategy,
			TransactionCount: run.TransactionCount,
			Universe:         run.Universe,
			MinSupport:       run.MinSupport,
			SupportThreshold: run.SupportThreshold,
			MinConfidence:    run.MinConfidence,
			StartedAt:        run.StartedAt,
			DurationNS:       int64(run.Duration),
		},
		Itemsets: make([]ItemsetSnapshot, len(itemsets)),
		Rules:    make([]RuleSnapshot, len(rules)),
	}
	for i, rec := range itemsets {
		data.Itemsets[i] = ItemsetSnapshot{Items: rec.Items, Support: rec.Support}
	}
	for i, rec := range rules {
		data.Rules[i] = RuleSnapshot{
			Antecedent:        rec.Antecedent,
			Consequent:        rec.Consequent,
			Support:           rec.Support,
			AntecedentSupport: rec.AntecedentSupport,
			Confidence:        rec.Confidence,
		}
	}
	return data, nil
}
