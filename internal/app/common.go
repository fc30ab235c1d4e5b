package app

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/analyzer"
	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/store"
)

// addMiningFlags registers the threshold flags shared by mine, compare and
// watch. Their values are read back through the merged config.
func addMiningFlags(cmd *cobra.Command) {
	cmd.Flags().String("min-support", "", `minimum support: a count ("3") or a fraction ("0.1", "10%") (default "2")`)
	cmd.Flags().Float64("min-confidence", 0, "minimum rule confidence between 0 and 1 (default 0.5)")
	cmd.Flags().StringSlice("universe", nil, "ordered items to consider (default: built-in product list)")
	cmd.Flags().Bool("infer-universe", false, "use every item seen in the data, sorted by name, as the universe")
	cmd.Flags().Int("cache-size", 0, "number of itemset supports to memoize (default 65536)")
	cmd.Flags().Bool("no-record", false, "do not record the run in the database")
}

// openStore opens the configured database and creates its schema if needed.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

// newAnalyzer returns an analyzer and the store backing it. The store is
// nil when --no-record is set; the caller closes it otherwise.
func newAnalyzer(cmd *cobra.Command) (*analyzer.Analyzer, *store.Store, error) {
	noRecord, _ := cmd.Flags().GetBool("no-record")
	if noRecord {
		return analyzer.New(nil, logger), nil, nil
	}

	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return analyzer.New(st, logger), st, nil
}

// miningParams builds analyzer parameters from the merged config.
func miningParams() (analyzer.Params, error) {
	support, err := cfg.Support()
	if err != nil {
		return analyzer.Params{}, err
	}
	universe := cfg.Universe
	if cfg.InferUniverse {
		universe = nil
	}
	return analyzer.Params{
		Universe:      universe,
		InferUniverse: cfg.InferUniverse,
		MinSupport:    support,
		MinConfidence: cfg.MinConfidence,
		Strategies:    cfg.Strategies,
		CacheSize:     cfg.CacheSize,
	}, nil
}

// loadDataset reads transaction files, applying configured item aliases.
func loadDataset(paths []string) (*dataset.Dataset, error) {
	opts := dataset.ReadOptions{}
	if cfg.Aliases != nil {
		opts.Aliases = cfg.Aliases.Aliases
	}

	ds, err := dataset.Load(paths, opts)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"dataset":      ds.Name,
		"files":        len(paths),
		"transactions": ds.Len(),
	}).Debug("loaded dataset")
	return ds, nil
}
