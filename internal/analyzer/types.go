package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// Params are the thresholds and strategies of a mining run.
type Params struct {
	Universe      []string // nil or empty: dataset.DefaultUniverse
	InferUniverse bool     // use the items seen in the dataset instead
	MinSupport    mining.MinSupport
	MinConfidence float64
	Strategy      string   // used by Mine; empty means brute force
	Strategies    []string // used by Compare; empty means all
	CacheSize     int      // 0 selects mining.DefaultCacheSize
}

// Validate checks thresholds and strategy names.
func (p Params) Validate() error {
	if err := p.MinSupport.Validate(); err != nil {
		return err
	}
	if err := mining.ValidateConfidence(p.MinConfidence); err != nil {
		return err
	}
	if p.CacheSize < 0 {
		return fmt.Errorf("invalid cache size %d: must not be negative", p.CacheSize)
	}
	if p.InferUniverse && len(p.Universe) > 0 {
		return fmt.Errorf("an explicit universe cannot be combined with universe inference")
	}
	if p.Strategy != "" {
		if _, err := mining.NewMiner[string](p.Strategy); err != nil {
			return err
		}
	}
	for _, name := range p.Strategies {
		if _, err := mining.NewMiner[string](name); err != nil {
			return err
		}
	}
	return nil
}

// MineResult is the outcome of a single mining run.
type MineResult struct {
	RunID        string
	Dataset      string
	Strategy     string
	Universe     []string
	Transactions int
	Threshold    int // MinSupport resolved to a count
	Itemsets     []mining.FrequentItemset[string]
	Rules        []mining.Rule[string]
	RuleStats    mining.RuleStats
	StartedAt    time.Time
	Duration     time.Duration // itemset mining only
	Persisted    bool
}

// StrategyResult is one strategy's share of a Comparison.
type StrategyResult struct {
	Strategy string
	RunID    string
	Itemsets []mining.FrequentItemset[string]
	Duration time.Duration
	Missing  int // oracle itemsets the strategy did not report
	Extra    int // reported itemsets absent from the oracle
}

// Agrees reports whether the strategy matched the brute-force oracle exactly.
func (r StrategyResult) Agrees() bool {
	return r.Missing == 0 && r.Extra == 0
}

// Comparison holds the results of running several strategies over one
// dataset against the brute-force oracle.
type Comparison struct {
	Dataset      string
	Universe     []string
	Transactions int
	Threshold    int
	Oracle       []mining.FrequentItemset[string]
	Rules        []mining.Rule[string]
	RuleStats    mining.RuleStats
	Results      []StrategyResult
}

// AllAgree reports whether every strategy matched the oracle.
func (c *Comparison) AllAgree() bool {
	for _, r := range c.Results {
		if !r.Agrees() {
			return false
		}
	}
	return true
}
