// Package snapshots writes recorded runs to portable JSON files and restores
// them into a database.
package snapshots

import (
	"time"

	"github.com/blackwell-systems/basketminer/internal/store"
)

// FormatVersion identifies the snapshot file layout.
const FormatVersion = 1

// SnapshotData is the JSON structure stored in snapshot files.
type SnapshotData struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Run       RunSnapshot       `json:"run"`
	Itemsets  []ItemsetSnapshot `json:"itemsets"`
	Rules     []RuleSnapshot    `json:"rules"`
}

// RunSnapshot is a run's settings and summary.
type RunSnapshot struct {
	ID               string    `json:"id"`
	Dataset          string    `json:"dataset"`
	Strategy         string    `json:"strategy"`
	TransactionCount int       `json:"transaction_count"`
	Universe         []string  `json:"universe"`
	MinSupport       string    `json:"min_support"`
	SupportThreshold int       `json:"support_threshold"`
	MinConfidence    float64   `json:"min_confidence"`
	StartedAt        time.Time `json:"started_at"`
	DurationNS       int64     `json:"duration_ns"`
}

// ItemsetSnapshot is one frequent itemset of a run.
type ItemsetSnapshot struct {
	Items   []string `json:"items"`
	Support int      `json:"support"`
}

// RuleSnapshot is one association rule of a run.
type RuleSnapshot struct {
	Antecedent        []string `json:"antecedent"`
	Consequent        []string `json:"consequent"`
	Support           int      `json:"support"`
	AntecedentSupport int      `json:"antecedent_support"`
	Confidence        float64  `json:"confidence"`
}

// Manager exports runs from a store to a snapshot directory and restores
// them back.
type Manager struct {
	store       *store.Store
	snapshotDir string
}

// New creates a new snapshot Manager.
func New(store *store.Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
	}
}
