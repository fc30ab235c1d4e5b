package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/store"
)

// Mine enumerates the frequent itemsets of ds with params.Strategy, derives
// rules from them and records the run.
func (a *Analyzer) Mine(ds *dataset.Dataset, params Params) (*MineResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	strategy := params.Strategy
	if strategy == "" {
		strategy = mining.StrategyBruteForce
	}

	universe := a.universe(ds, params)
	log := a.log.WithFields(logrus.Fields{
		"dataset":  ds.Name,
		"strategy": strategy,
	})
	opts := []mining.Option{mining.WithCacheSize(params.CacheSize), mining.WithLogger(log)}

	miner, err := mining.NewMiner[string](strategy, opts...)
	if err != nil {
		return nil, err
	}
	engine, err := mining.NewEngine(ds.Transactions, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mining engine: %w", err)
	}

	result := &MineResult{
		RunID:        uuid.NewString(),
		Dataset:      ds.Name,
		Strategy:     miner.Name(),
		Universe:     universe,
		Transactions: ds.Len(),
		Threshold:    params.MinSupport.Resolve(ds.Len()),
		StartedAt:    a.now(),
	}

	start := time.Now()
	if miner.Name() == mining.StrategyBruteForce {
		// Mining through the engine leaves its cache warm for rule generation.
		result.Itemsets, err = engine.FrequentItemsets(universe, params.MinSupport)
	} else {
		result.Itemsets, err = miner.FrequentItemsets(universe, ds.Transactions, params.MinSupport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mine %s: %w", ds.Name, err)
	}
	result.Duration = time.Since(start)

	result.Rules, result.RuleStats, err = engine.Rules(mining.Itemsets(result.Itemsets), params.MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rules: %w", err)
	}

	log.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"itemsets":  len(result.Itemsets),
		"rules":     len(result.Rules),
		"skipped":   result.RuleStats.Skipped,
		"threshold": result.Threshold,
		"duration":  result.Duration,
	}).Info("mined dataset")

	if a.store != nil {
		run := a.newRun(result.RunID, ds, result.Strategy, universe, params, result.StartedAt, result.Duration)
		if err := a.store.InsertRun(run, itemsetRecords(result.Itemsets), ruleRecords(result.Rules)); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		result.Persisted = true
	}

	return result, nil
}

// universe returns the fixed candidate item list of a run. Items are only
// taken from the data when params ask for it.
func (a *Analyzer) universe(ds *dataset.Dataset, params Params) []string {
	switch {
	case params.InferUniverse:
		return ds.InferUniverse()
	case len(params.Universe) > 0:
		return params.Universe
	default:
		return append([]string(nil), dataset.DefaultUniverse...)
	}
}

func (a *Analyzer) newRun(id string, ds *dataset.Dataset, strategy string, universe []string, params Params, started time.Time, d time.Duration) *store.Run {
	return &store.Run{
		ID:               id,
		Dataset:          ds.Name,
		Strategy:         strategy,
		TransactionCount: ds.Len(),
		Universe:         universe,
		MinSupport:       params.MinSupport.String(),
		SupportThreshold: params.MinSupport.Resolve(ds.Len()),
		MinConfidence:    params.MinConfidence,
		StartedAt:        started,
		Duration:         d,
	}
}

func itemsetRecords(frequent []mining.FrequentItemset[string]) []store.ItemsetRecord {
	out := make([]store.ItemsetRecord, len(frequent))
	for i, f := range frequent {
		out[i] = store.ItemsetRecord{Items: []string(f.Items), Support: f.Support}
	}
	return out
}

func ruleRecords(rules []mining.Rule[string]) []store.RuleRecord {
	out := make([]store.RuleRecord, len(rules))
	for i, r := range rules {
		out[i] = store.RuleRecord{
			Antecedent:        []string(r.Antecedent),
			Consequent:        []string(r.Consequent),
			Support:           r.Support,
			AntecedentSupport: r.AntecedentSupport,
			Confidence:        r.Confidence,
		}
	}
	return out
}
