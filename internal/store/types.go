package store

import "time"

// Run records one mining strategy executed over one dataset.
type Run struct {
	ID               string
	Dataset          string
	Strategy         string // "brute-force", "apriori" or "fp-growth"
	TransactionCount int
	Universe         []string
	MinSupport       string // as given: "10", "0.1" or "10%"
	SupportThreshold int    // MinSupport resolved to a transaction count
	MinConfidence    float64
	StartedAt        time.Time
	Duration         time.Duration
	ItemsetCount     int
	RuleCount        int
}

// ItemsetRecord is a frequent itemset stored with a run.
type ItemsetRecord struct {
	Items   []string
	Support int
}

// RuleRecord is an association rule stored with a run.
type RuleRecord struct {
	Antecedent        []string
	Consequent        []string
	Support           int
	AntecedentSupport int
	Confidence        float64
}
