package app

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/output"
)

var (
	generateFiles        int
	generateTransactions int
	generateDir          string
	generatePrefix       string
	generateSeed         int64

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic transaction files",
		Long: `Generate writes random market-basket transaction files for experiments.

Each transaction is a uniform random sample, without replacement, of between
one and all of the universe items. The universe is the configured item list,
or ten supermarket products when none is configured.

Files are named <prefix>1.csv ... <prefix>N.csv. Existing files are
overwritten. Use --seed to make the output reproducible.`,
		Example: `  # Five files of twenty transactions in the current directory
  basketminer generate

  # Ten larger files in ./data, reproducibly
  basketminer generate --files 10 --transactions 500 --dir data --seed 42

  # Custom universe
  basketminer generate --universe Tea,Coffee,Sugar,Milk`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().IntVarP(&generateFiles, "files", "n", 5, "number of files to write")
	generateCmd.Flags().IntVarP(&generateTransactions, "transactions", "t", 20, "transactions per file")
	generateCmd.Flags().StringVar(&generateDir, "dir", ".", "output directory")
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "database", "file name prefix")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed (default: current time)")
	generateCmd.Flags().StringSlice("universe", nil, "items to draw from (default: built-in product list)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFiles <= 0 {
		return fmt.Errorf("invalid files: %d (must be positive)", generateFiles)
	}
	if generateTransactions < 0 {
		return fmt.Errorf("invalid transactions: %d (must not be negative)", generateTransactions)
	}

	universe := cfg.Universe
	if len(universe) == 0 {
		universe = dataset.DefaultUniverse
	}

	seed := generateSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if err := os.MkdirAll(generateDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", generateDir, err)
	}

	progress := output.NewProgress(generateFiles, "Writing transaction files")
	progress.SetWriter(cmd.ErrOrStderr())

	for i := 1; i <= generateFiles; i++ {
		baskets, err := dataset.Generate(rng, universe, generateTransactions)
		if err != nil {
			return err
		}
		path := dataset.FileName(generateDir, generatePrefix, i)
		if err := dataset.WriteFile(path, baskets); err != nil {
			return err
		}
		logger.WithField("file", path).WithField("transactions", len(baskets)).Debug("wrote transaction file")
		progress.Increment()
	}
	progress.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s files of %s transactions to %s (seed %d)\n",
		humanize.Comma(int64(generateFiles)),
		humanize.Comma(int64(generateTransactions)),
		generateDir,
		seed)
	return nil
}
