package mining

import (
	"fmt"
	"sort"
	"strings"
)

// Strategy names accepted by NewMiner.
const (
	StrategyBruteForce = "brute-force"
	StrategyApriori    = "apriori"
	StrategyFPGrowth   = "fp-growth"
)

// Miner is a frequent-itemset mining strategy. Every implementation returns
// the same itemsets as BruteForce, ordered by size and then by universe
// position, so results can be compared element by element.
type Miner[T comparable] interface {
	Name() string
	FrequentItemsets(universe []T, transactions []Transaction[T], minSupport MinSupport) ([]FrequentItemset[T], error)
}

// StrategyNames lists the available strategies, reference first.
func StrategyNames() []string {
	return []string{StrategyBruteForce, StrategyApriori, StrategyFPGrowth}
}

// NewMiner returns the strategy registered under name.
func NewMiner[T comparable](name string, opts ...Option) (Miner[T], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyBruteForce, "bruteforce", "brute":
		return NewBruteForce[T](opts...), nil
	case StrategyApriori:
		return NewApriori[T](opts...), nil
	case StrategyFPGrowth, "fpgrowth":
		return NewFPGrowth[T](opts...), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s (must be one of %s)", name, strings.Join(StrategyNames(), ", "))
	}
}

// Diff compares two mining results. An entry of want is missing from got
// unless got holds an itemset with the same items and the same support;
// entries of got without such a match in want are extra.
func Diff[T comparable](want, got []FrequentItemset[T]) (missing, extra []FrequentItemset[T]) {
	matched := make([]bool, len(got))
	for _, w := range want {
		found := false
		for i, g := range got {
			if !matched[i] && g.Support == w.Support && g.Items.Equal(w.Items) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, w)
		}
	}
	for i, g := range got {
		if !matched[i] {
			extra = append(extra, g)
		}
	}
	return missing, extra
}

// encode maps each transaction onto a membership row over universe
// positions. Items outside the universe are ignored.
func encode[T comparable](universe []T, transactions []Transaction[T]) [][]bool {
	rows := make([][]bool, len(transactions))
	for r, t := range transactions {
		row := make([]bool, len(universe))
		for i, it := range universe {
			row[i] = t.Has(it)
		}
		rows[r] = row
	}
	return rows
}

func rowContains(row []bool, idx []int) bool {
	for _, i := range idx {
		if !row[i] {
			return false
		}
	}
	return true
}

// positional is an itemset in universe positions with its support.
type positional struct {
	idx     []int
	support int
}

// sortPositional orders results by size, then lexicographically by position,
// which is the order brute-force enumeration produces.
func sortPositional(ps []positional) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i].idx, ps[j].idx
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}

func decode[T comparable](universe []T, ps []positional) []FrequentItemset[T] {
	out := make([]FrequentItemset[T], len(ps))
	for i, p := range ps {
		out[i] = FrequentItemset[T]{Items: pick(universe, p.idx), Support: p.support}
	}
	return out
}

func positionKey(idx []int) string {
	var sb strings.Builder
	for i, p := range idx {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", p)
	}
	return sb.String()
}
