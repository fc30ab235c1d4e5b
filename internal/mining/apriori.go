package mining

import "github.com/sirupsen/logrus"

// Apriori mines level by level, building size-k candidates only from
// frequent (k-1)-itemsets and discarding candidates with an infrequent
// subset before counting them.
type Apriori[T comparable] struct {
	opts options
}

// NewApriori returns the Apriori Miner.
func NewApriori[T comparable](opts ...Option) *Apriori[T] {
	return &Apriori[T]{opts: buildOptions(opts)}
}

// Name returns StrategyApriori.
func (a *Apriori[T]) Name() string {
	return StrategyApriori
}

// FrequentItemsets implements Miner.
func (a *Apriori[T]) FrequentItemsets(universe []T, transactions []Transaction[T], minSupport MinSupport) ([]FrequentItemset[T], error) {
	if err := minSupport.Validate(); err != nil {
		return nil, err
	}

	universe = dedupe(universe)
	threshold := minSupport.Resolve(len(transactions))
	rows := encode(universe, transactions)

	var result []positional
	var level [][]int
	for i := range universe {
		n := 0
		for _, row := range rows {
			if row[i] {
				n++
			}
		}
		if n >= threshold {
			idx := []int{i}
			level = append(level, idx)
			result = append(result, positional{idx: idx, support: n})
		}
	}
	a.logLevel(1, len(universe), len(level))

	for k := 2; len(level) > 0 && k <= len(universe); k++ {
		candidates := aprioriGen(level)
		var next [][]int
		for _, c := range candidates {
			n := 0
			for _, row := range rows {
				if rowContains(row, c) {
					n++
				}
			}
			if n >= threshold {
				next = append(next, c)
				result = append(result, positional{idx: c, support: n})
			}
		}
		a.logLevel(k, len(candidates), len(next))
		level = next
	}

	sortPositional(result)
	return decode(universe, result), nil
}

func (a *Apriori[T]) logLevel(size, candidates, frequent int) {
	a.opts.logger.WithFields(logrus.Fields{
		"strategy":   StrategyApriori,
		"size":       size,
		"candidates": candidates,
		"frequent":   frequent,
	}).Debug("counted candidates")
}

// aprioriGen joins lexicographically sorted (k-1)-itemsets that share their
// first k-2 positions and drops joins with an infrequent (k-1)-subset.
func aprioriGen(level [][]int) [][]int {
	known := make(map[string]struct{}, len(level))
	for _, s := range level {
		known[positionKey(s)] = struct{}{}
	}

	var out [][]int
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			p, q := level[i], level[j]
			if !samePrefix(p, q) {
				break
			}
			c := make([]int, len(p)+1)
			copy(c, p)
			c[len(p)] = q[len(q)-1]
			if allSubsetsKnown(c, known) {
				out = append(out, c)
			}
		}
	}
	return out
}

func samePrefix(p, q []int) bool {
	for i := 0; i < len(p)-1; i++ {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func allSubsetsKnown(c []int, known map[string]struct{}) bool {
	sub := make([]int, 0, len(c)-1)
	for drop := range c {
		sub = sub[:0]
		for i, p := range c {
			if i != drop {
				sub = append(sub, p)
			}
		}
		if _, ok := known[positionKey(sub)]; !ok {
			return false
		}
	}
	return true
}
