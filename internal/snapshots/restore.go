package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blackwell-systems/basketminer/internal/store"
)

// ErrRunExists is returned when restoring a run whose ID is already stored.
var ErrRunExists = errors.New("run already exists")

// ErrUnsupportedVersion is returned for snapshot files of an unknown layout.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// RestoreSnapshot reads the snapshot file at path and inserts its run into
// the store.
func (m *Manager) RestoreSnapshot(path string) (*store.Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return m.ReadSnapshot(f)
}

// ReadSnapshot decodes a snapshot from r and inserts its run into the store.
func (m *Manager) ReadSnapshot(r io.Reader) (*store.Run, error) {
	var data SnapshotData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if data.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data.Version)
	}
	if data.Run.ID == "" {
		return nil, fmt.Errorf("snapshot has no run ID")
	}

	if _, err := m.store.GetRun(data.Run.ID); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, data.Run.ID)
	} else if !errors.Is(err, store.ErrRunNotFound) {
		return nil, err
	}

	run := &store.Run{
		ID:               data.Run.ID,
		Dataset:          data.Run.Dataset,
		Strategy:         data.Run.Strategy,
		TransactionCount: data.Run.TransactionCount,
		Universe:         data.Run.Universe,
		MinSupport:       data.Run.MinSupport,
		SupportThreshold: data.Run.SupportThreshold,
		MinConfidence:    data.Run.MinConfidence,
		StartedAt:        data.Run.StartedAt,
		Duration:         time.Duration(data.Run.DurationNS),
	}

	itemsets := make([]store.ItemsetRecord, len(data.Itemsets))
	for i, s := range data.Itemsets {
		itemsets[i] = store.ItemsetRecord{Items: s.Items, Support: s.Support}
	}
	rules := make([]store.RuleRecord, len(data.Rules))
	for i, s := range data.Rules {
		rules[i] = store.RuleRecord{
			Antecedent:        s.Antecedent,
			Consequent:        s.Consequent,
			Support:           s.Support,
			AntecedentSupport: s.AntecedentSupport,
			Confidence:        s.Confidence,
		}
	}

	if err := m.store.InsertRun(run, itemsets, rules); err != nil {
		return nil, fmt.Errorf("failed to restore run: %w", err)
	}
	return run, nil
}
