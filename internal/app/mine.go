package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/output"
)

var (
	mineStrategy     string
	mineItemsetsOnly bool

	mineCmd = &cobra.Command{
		Use:   "mine <file>...",
		Short: "Find frequent itemsets and association rules",
		Long: `Mine reads one or more transaction files as a single dataset, finds every
itemset whose support reaches the minimum support, and derives the rules
X -> Y whose confidence reaches the minimum confidence.

Itemsets are listed by size, then in universe order. Rules are listed in the
order they are derived: by source itemset, then by antecedent size.

The default strategy enumerates every combination size by size and stops
at the first size with no frequent itemset. Apriori and FP-Growth return
exactly the same itemsets.`,
		Example: `  # Mine one file with the configured thresholds
  basketminer mine data/database1.csv

  # Itemsets in at least 20% of transactions, rules with confidence >= 0.7
  basketminer mine data/*.csv --min-support 20% --min-confidence 0.7

  # Restrict to a few items and use FP-Growth
  basketminer mine data/database1.csv --universe Milk,Bread,Cheese --strategy fp-growth`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMine,
	}
)

func init() {
	addMiningFlags(mineCmd)
	mineCmd.Flags().StringVar(&mineStrategy, "strategy", mining.StrategyBruteForce, "mining strategy (brute-force, apriori, fp-growth)")
	mineCmd.Flags().BoolVar(&mineItemsetsOnly, "itemsets-only", false, "skip the rule table")
}

func runMine(cmd *cobra.Command, args []string) error {
	params, err := miningParams()
	if err != nil {
		return err
	}
	params.Strategy = mineStrategy

	ds, err := loadDataset(args)
	if err != nil {
		return err
	}

	a, st, err := newAnalyzer(cmd)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	res, err := a.Mine(ds, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset %s: %s transactions, %d items, min support %s (%s transactions), min confidence %g\n\n",
		ds.Name,
		humanize.Comma(int64(res.Transactions)),
		len(res.Universe),
		params.MinSupport,
		humanize.Comma(int64(res.Threshold)),
		params.MinConfidence)

	fmt.Fprintf(out, "Frequent itemsets (%s, %s):\n", humanize.Comma(int64(len(res.Itemsets))), res.Strategy)
	fmt.Fprint(out, output.RenderItemsetTable(res.Itemsets, res.Transactions))

	if !mineItemsetsOnly {
		fmt.Fprintf(out, "\nAssociation rules (%s):\n", humanize.Comma(int64(len(res.Rules))))
		fmt.Fprint(out, output.RenderRuleTable(res.Rules, res.Transactions))
	}

	if res.Persisted {
		fmt.Fprintf(out, "\nRecorded run %s\n", res.RunID)
	}
	return nil
}
