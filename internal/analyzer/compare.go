package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/mining"
)

// Compare runs each strategy in params.Strategies (all of them when empty)
// over ds and checks its itemsets against the brute-force oracle. Rules are
// generated once, from the oracle. One run is recorded per strategy; rules
// are attached only to runs that agree with the oracle.
func (a *Analyzer) Compare(ds *dataset.Dataset, params Params) (*Comparison, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	names := params.Strategies
	if len(names) == 0 {
		names = mining.StrategyNames()
	}

	universe := a.universe(ds, params)
	log := a.log.WithField("dataset", ds.Name)

	engine, err := mining.NewEngine(ds.Transactions,
		mining.WithCacheSize(params.CacheSize),
		mining.WithLogger(log.WithField("strategy", mining.StrategyBruteForce)))
	if err != nil {
		return nil, fmt.Errorf("failed to create mining engine: %w", err)
	}

	started := a.now()
	start := time.Now()
	oracle, err := engine.FrequentItemsets(universe, params.MinSupport)
	if err != nil {
		return nil, fmt.Errorf("failed to mine %s: %w", ds.Name, err)
	}
	oracleDuration := time.Since(start)

	rules, stats, err := engine.Rules(mining.Itemsets(oracle), params.MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rules: %w", err)
	}

	cmp := &Comparison{
		Dataset:      ds.Name,
		Universe:     universe,
		Transactions: ds.Len(),
		Threshold:    params.MinSupport.Resolve(ds.Len()),
		Oracle:       oracle,
		Rules:        rules,
		RuleStats:    stats,
	}

	seen := make(map[string]bool)
	for _, name := range names {
		strategyLog := log.WithField("strategy", name)
		miner, err := mining.NewMiner[string](name, mining.WithCacheSize(params.CacheSize), mining.WithLogger(strategyLog))
		if err != nil {
			return nil, err
		}
		if seen[miner.Name()] {
			continue
		}
		seen[miner.Name()] = true

		res := StrategyResult{Strategy: miner.Name(), RunID: uuid.NewString()}
		if miner.Name() == mining.StrategyBruteForce {
			res.Itemsets, res.Duration = oracle, oracleDuration
		} else {
			start := time.Now()
			res.Itemsets, err = miner.FrequentItemsets(universe, ds.Transactions, params.MinSupport)
			if err != nil {
				return nil, fmt.Errorf("strategy %s failed on %s: %w", miner.Name(), ds.Name, err)
			}
			res.Duration = time.Since(start)
		}

		missing, extra := mining.Diff(oracle, res.Itemsets)
		res.Missing, res.Extra = len(missing), len(extra)

		entry := strategyLog.WithFields(logrus.Fields{
			"run_id":   res.RunID,
			"itemsets": len(res.Itemsets),
			"duration": res.Duration,
		})
		if res.Agrees() {
			entry.Info("strategy agrees with oracle")
		} else {
			entry.WithFields(logrus.Fields{"missing": res.Missing, "extra": res.Extra}).Warn("strategy disagrees with oracle")
		}

		if a.store != nil {
			var runRules []mining.Rule[string]
			if res.Agrees() {
				runRules = rules
			}
			run := a.newRun(res.RunID, ds, res.Strategy, universe, params, started, res.Duration)
			if err := a.store.InsertRun(run, itemsetRecords(res.Itemsets), ruleRecords(runRules)); err != nil {
				return nil, fmt.Errorf("failed to record %s run: %w", res.Strategy, err)
			}
		}

		cmp.Results = append(cmp.Results, res)
	}

	return cmp, nil
}
