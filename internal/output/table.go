// Package output renders mining results for the terminal.
//
// Tables cover frequent itemsets, association rules, strategy comparisons
// and recorded runs. Progress bars and spinners report on long operations.
// Colour is emitted only when stdout is a terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/basketminer/internal/analyzer"
	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/store"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderItemsetTable renders frequent itemsets with their support counts.
// transactions is the dataset size, used for the relative support column.
func RenderItemsetTable(itemsets []mining.FrequentItemset[string], transactions int) string {
	if len(itemsets) == 0 {
		return "No frequent itemsets found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-40s %9s %8s\n", "Size", "Itemset", "Support", "Share"))
	sb.WriteString(strings.Repeat("─", 64))
	sb.WriteString("\n")

	for _, f := range itemsets {
		sb.WriteString(fmt.Sprintf("%-4d %-40s %9s %8s\n",
			len(f.Items),
			truncate(formatItemset(f.Items), 40),
			humanize.Comma(int64(f.Support)),
			formatShare(f.Support, transactions)))
	}

	return sb.String()
}

// RenderRuleTable renders association rules in generation order.
func RenderRuleTable(rules []mining.Rule[string], transactions int) string {
	if len(rules) == 0 {
		return "No association rules found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-28s    %-28s %9s %8s %10s\n",
		"Antecedent", "Consequent", "Support", "Share", "Confidence"))
	sb.WriteString(strings.Repeat("─", 91))
	sb.WriteString("\n")

	for _, r := range rules {
		conf := fmt.Sprintf("%.3f", r.Confidence)
		if r.Confidence >= 0.999999 {
			conf = colorize(colorGreen, conf)
		}
		sb.WriteString(fmt.Sprintf("%-28s -> %-28s %9s %8s %10s\n",
			truncate(formatItemset(r.Antecedent), 28),
			truncate(formatItemset(r.Consequent), 28),
			humanize.Comma(int64(r.Support)),
			formatShare(r.Support, transactions),
			conf))
	}

	return sb.String()
}

// RenderComparisonTable renders per-strategy timings and their agreement
// with the brute-force oracle.
func RenderComparisonTable(cmp *analyzer.Comparison) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Dataset %s: %s transactions, %d items, min support %s\n\n",
		cmp.Dataset,
		humanize.Comma(int64(cmp.Transactions)),
		len(cmp.Universe),
		humanize.Comma(int64(cmp.Threshold))))

	if len(cmp.Results) == 0 {
		sb.WriteString("No strategies were run.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-12s %9s %12s %-10s\n", "Strategy", "Itemsets", "Time", "Oracle"))
	sb.WriteString(strings.Repeat("─", 46))
	sb.WriteString("\n")

	for _, r := range cmp.Results {
		status := colorize(colorGreen, "✓ agrees")
		if !r.Agrees() {
			status = colorize(colorRed, fmt.Sprintf("✗ -%d +%d", r.Missing, r.Extra))
		}
		sb.WriteString(fmt.Sprintf("%-12s %9s %12s %s\n",
			r.Strategy,
			humanize.Comma(int64(len(r.Itemsets))),
			formatDuration(r.Duration),
			status))
	}

	sb.WriteString(fmt.Sprintf("\n%s rules from the oracle (%d candidate splits, %d skipped)\n",
		humanize.Comma(int64(len(cmp.Rules))), cmp.RuleStats.Candidates, cmp.RuleStats.Skipped))

	return sb.String()
}

// RenderRunTable renders recorded runs, newest first as given.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-8s %-20s %-12s %7s %8s %8s %6s %-14s\n",
		"Run", "Dataset", "Strategy", "Txns", "Support", "Itemsets", "Rules", "When"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-8s %-20s %-12s %7s %8s %8s %6s %-14s\n",
			shortID(r.ID),
			truncate(r.Dataset, 20),
			r.Strategy,
			humanize.Comma(int64(r.TransactionCount)),
			r.MinSupport,
			humanize.Comma(int64(r.ItemsetCount)),
			humanize.Comma(int64(r.RuleCount)),
			colorize(colorGray, humanize.Time(r.StartedAt))))
	}

	return sb.String()
}

// RenderRunSummary renders the header block for a single run.
func RenderRunSummary(run *store.Run) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:            %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Dataset:        %s\n", run.Dataset))
	sb.WriteString(fmt.Sprintf("Strategy:       %s\n", run.Strategy))
	sb.WriteString(fmt.Sprintf("Transactions:   %s\n", humanize.Comma(int64(run.TransactionCount))))
	sb.WriteString(fmt.Sprintf("Universe:       %s\n", strings.Join(run.Universe, ", ")))
	sb.WriteString(fmt.Sprintf("Min support:    %s (%s transactions)\n", run.MinSupport, humanize.Comma(int64(run.SupportThreshold))))
	sb.WriteString(fmt.Sprintf("Min confidence: %g\n", run.MinConfidence))
	sb.WriteString(fmt.Sprintf("Started:        %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt)))
	sb.WriteString(fmt.Sprintf("Mining time:    %s\n", formatDuration(run.Duration)))
	sb.WriteString(fmt.Sprintf("Results:        %s itemsets, %s rules\n",
		humanize.Comma(int64(run.ItemsetCount)), humanize.Comma(int64(run.RuleCount))))

	return sb.String()
}

// RenderStoredItemsets renders itemsets read back from a recorded run.
func RenderStoredItemsets(records []store.ItemsetRecord, transactions int) string {
	itemsets := make([]mining.FrequentItemset[string], len(records))
	for i, rec := range records {
		itemsets[i] = mining.FrequentItemset[string]{Items: rec.Items, Support: rec.Support}
	}
	return RenderItemsetTable(itemsets, transactions)
}

// RenderStoredRules renders rules read back from a recorded run.
func RenderStoredRules(records []store.RuleRecord, transactions int) string {
	rules := make([]mining.Rule[string], len(records))
	for i, rec := range records {
		rules[i] = mining.Rule[string]{
			Antecedent:        rec.Antecedent,
			Consequent:        rec.Consequent,
			Support:           rec.Support,
			AntecedentSupport: rec.AntecedentSupport,
			Confidence:        rec.Confidence,
		}
	}
	return RenderRuleTable(rules, transactions)
}

func formatItemset(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}

// formatShare renders support as a percentage of the transaction count.
func formatShare(support, transactions int) string {
	if transactions <= 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(support)/float64(transactions))
}

// formatDuration rounds durations for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
