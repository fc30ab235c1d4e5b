package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    dataset TEXT NOT NULL,
    strategy TEXT NOT NULL,
    transaction_count INTEGER NOT NULL,
    universe TEXT NOT NULL,
    min_support TEXT NOT NULL,
    support_threshold INTEGER NOT NULL,
    min_confidence REAL NOT NULL,
    started_at TIMESTAMP NOT NULL,
    duration_ns INTEGER NOT NULL,
    itemset_count INTEGER NOT NULL,
    rule_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_itemsets (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    items TEXT NOT NULL,
    size INTEGER NOT NULL,
    support INTEGER NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_rules (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    antecedent TEXT NOT NULL,
    consequent TEXT NOT NULL,
    support INTEGER NOT NULL,
    antecedent_support INTEGER NOT NULL,
    confidence REAL NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset);
CREATE INDEX IF NOT EXISTS idx_itemsets_run ON run_itemsets(run_id);
CREATE INDEX IF NOT EXISTS idx_rules_run ON run_rules(run_id);
`
