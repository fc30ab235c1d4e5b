package snapshots

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/basketminer/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func insertSampleRun(t *testing.T, st *store.Store, id string) *store.Run {
	t.Helper()
	run := &store.Run{
		ID:               id,
		Dataset:          "database_1",
		Strategy:         "apriori",
		TransactionCount: 4,
		Universe:         []string{"A", "B", "C"},
		MinSupport:       "50%",
		SupportThreshold: 2,
		MinConfidence:    0.5,
		StartedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:         2 * time.Millisecond,
	}
	itemsets := []store.ItemsetRecord{
		{Items: []string{"A"}, Support: 2},
		{Items: []string{"B"}, Support: 3},
		{Items: []string{"A", "B"}, Support: 2},
	}
	rules := []store.RuleRecord{
		{Antecedent: []string{"A"}, Consequent: []string{"B"}, Support: 2, AntecedentSupport: 2, Confidence: 1},
	}
	if err := st.InsertRun(run, itemsets, rules); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	return run
}

func TestCreateSnapshot_WritesFile(t *testing.T) {
	st := setupTestStore(t)
	insertSampleRun(t, st, "run-1")
	dir := filepath.Join(t.TempDir(), "exports")

	mgr := New(st, dir)
	path, err := mgr.CreateSnapshot("run-1")
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}
	if path != filepath.Join(dir, "run-1.json") {
		t.Errorf("unexpected path %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	if !strings.Contains(string(content), `"strategy": "apriori"`) {
		t.Errorf("snapshot missing strategy:\n%s", content)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected 1 file in %s, got %d", dir, len(entries))
	}
}

func TestCreateSnapshot_UnknownRun(t *testing.T) {
	st := setupTestStore(t)
	mgr := New(st, t.TempDir())

	_, err := mgr.CreateSnapshot("missing")
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRestoreSnapshot_RoundTrip(t *testing.T) {
	src := setupTestStore(t)
	orig := insertSampleRun(t, src, "run-1")

	var buf bytes.Buffer
	if err := New(src, "").WriteSnapshot("run-1", &buf); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	dst := setupTestStore(t)
	restored, err := New(dst, "").ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if restored.ID != orig.ID || restored.SupportThreshold != 2 {
		t.Errorf("unexpected restored run: %+v", restored)
	}

	got, err := dst.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !got.StartedAt.Equal(orig.StartedAt) || got.Duration != orig.Duration {
		t.Errorf("timing not preserved: %v %v", got.StartedAt, got.Duration)
	}
	if got.ItemsetCount != 3 || got.RuleCount != 1 {
		t.Errorf("expected 3 itemsets and 1 rule, got %d and %d", got.ItemsetCount, got.RuleCount)
	}

	itemsets, err := dst.GetRunItemsets("run-1")
	if err != nil {
		t.Fatalf("GetRunItemsets failed: %v", err)
	}
	if !reflect.DeepEqual(itemsets[2].Items, []string{"A", "B"}) {
		t.Errorf("itemset order not preserved: %v", itemsets)
	}
}

func TestRestoreSnapshot_ExistingRun(t *testing.T) {
	st := setupTestStore(t)
	insertSampleRun(t, st, "run-1")
	dir := t.TempDir()
	mgr := New(st, dir)

	path, err := mgr.CreateSnapshot("run-1")
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}
	if _, err := mgr.RestoreSnapshot(path); !errors.Is(err, ErrRunExists) {
		t.Fatalf("expected ErrRunExists, got %v", err)
	}
}

func TestReadSnapshot_UnsupportedVersion(t *testing.T) {
	st := setupTestStore(t)
	_, err := New(st, "").ReadSnapshot(strings.NewReader(`{"version": 99, "run": {"id": "x"}}`))
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadSnapshot_InvalidJSON(t *testing.T) {
	st := setupTestStore(t)
	if _, err := New(st, "").ReadSnapshot(strings.NewReader("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
