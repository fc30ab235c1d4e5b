package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/output"
	"github.com/blackwell-systems/basketminer/internal/snapshots"
	"github.com/blackwell-systems/basketminer/internal/store"
)

var (
	historyLimit  int
	historyDelete bool
	historyExport string
	historyImport string

	historyCmd = &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs or show one in detail",
		Long: `History lists the most recent mining runs recorded in the database.

Given a run ID, or any unique prefix of one, it prints that run's settings
together with the itemsets and rules it produced.

A run can be exported to a JSON file with --export and loaded into another
database with --import.`,
		Example: `  # Last 20 runs
  basketminer history

  # Every run
  basketminer history --limit 0

  # One run in detail
  basketminer history 0f8fad5b

  # Forget a run
  basketminer history 0f8fad5b --delete

  # Export a run to ./exports/<run-id>.json, or to stdout with "-"
  basketminer history 0f8fad5b --export ./exports
  basketminer history 0f8fad5b --export -

  # Load an exported run
  basketminer history --import ./exports/0f8fad5b-....json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyDelete, "delete", false, "delete the given run")
	historyCmd.Flags().StringVar(&historyExport, "export", "", "write the given run as JSON into this directory (\"-\" for stdout)")
	historyCmd.Flags().StringVar(&historyImport, "import", "", "load a run exported with --export")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("invalid limit: %d (must not be negative)", historyLimit)
	}
	if historyDelete && len(args) == 0 {
		return fmt.Errorf("--delete requires a run ID")
	}
	if historyExport != "" && len(args) == 0 {
		return fmt.Errorf("--export requires a run ID")
	}
	if historyImport != "" && len(args) > 0 {
		return fmt.Errorf("--import does not take a run ID")
	}
	if historyDelete && historyExport != "" {
		return fmt.Errorf("--delete and --export cannot be combined")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if historyImport != "" {
		run, err := snapshots.New(st, "").RestoreSnapshot(historyImport)
		if err != nil {
			return err
		}
		logger.WithField("run_id", run.ID).Info("imported run")
		fmt.Fprintf(out, "✓ Imported run %s (%s, %s)\n", run.ID, run.Dataset, run.Strategy)
		return nil
	}

	if len(args) == 0 {
		runs, err := st.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderRunTable(runs))

		total, err := st.CountRuns()
		if err != nil {
			return err
		}
		if total > len(runs) {
			fmt.Fprintf(out, "\nShowing %d of %d runs (use --limit 0 for all)\n", len(runs), total)
		}
		return nil
	}

	run, err := resolveRun(st, args[0])
	if err != nil {
		return err
	}

	if historyExport == "-" {
		return snapshots.New(st, "").WriteSnapshot(run.ID, out)
	}
	if historyExport != "" {
		path, err := snapshots.New(st, historyExport).CreateSnapshot(run.ID)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"run_id": run.ID, "path": path}).Info("exported run")
		fmt.Fprintf(out, "✓ Exported run %s to %s\n", run.ID, path)
		return nil
	}

	if historyDelete {
		if err := st.DeleteRun(run.ID); err != nil {
			return err
		}
		logger.WithField("run_id", run.ID).Info("deleted run")
		fmt.Fprintf(out, "✓ Deleted run %s\n", run.ID)
		return nil
	}

	itemsets, err := st.GetRunItemsets(run.ID)
	if err != nil {
		return err
	}
	rules, err := st.GetRunRules(run.ID)
	if err != nil {
		return err
	}

	fmt.Fprint(out, output.RenderRunSummary(run))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderStoredItemsets(itemsets, run.TransactionCount))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderStoredRules(rules, run.TransactionCount))
	return nil
}

// resolveRun finds a run by full ID or unique ID prefix.
func resolveRun(st *store.Store, id string) (*store.Run, error) {
	run, err := st.GetRun(id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, store.ErrRunNotFound) {
		return nil, err
	}

	runs, err := st.ListRuns(0)
	if err != nil {
		return nil, err
	}

	var matches []*store.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run ID prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
