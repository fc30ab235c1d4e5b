package mining

import "github.com/sirupsen/logrus"

// FrequentItemsets enumerates every combination of universe size by size
// and keeps those whose support reaches minSupport. Enumeration stops at
// the first size with no frequent itemset; the result is the union of all
// sizes processed, ordered by size and then by universe position.
//
// Stopping early loses nothing: each k-subset of a frequent (k+1)-itemset is
// itself frequent, so once size k is empty every larger size is empty too.
func (e *Engine[T]) FrequentItemsets(universe []T, minSupport MinSupport) ([]FrequentItemset[T], error) {
	if err := minSupport.Validate(); err != nil {
		return nil, err
	}

	universe = dedupe(universe)
	threshold := minSupport.Resolve(e.counter.Transactions())

	result := []FrequentItemset[T]{}
	for size := 1; size <= len(universe); size++ {
		candidates, found := 0, 0
		forEachCombination(len(universe), size, func(idx []int) {
			candidates++
			items := pick(universe, idx)
			if n := e.counter.Support(items); n >= threshold {
				result = append(result, FrequentItemset[T]{Items: items, Support: n})
				found++
			}
		})

		e.log.WithFields(logrus.Fields{
			"size":       size,
			"candidates": candidates,
			"frequent":   found,
			"threshold":  threshold,
		}).Debug("enumerated itemsets")

		if found == 0 {
			break
		}
	}

	return result, nil
}

// BruteForce is the exhaustive reference Miner.
type BruteForce[T comparable] struct {
	opts []Option
}

// NewBruteForce returns the brute-force Miner.
func NewBruteForce[T comparable](opts ...Option) *BruteForce[T] {
	return &BruteForce[T]{opts: opts}
}

// Name returns StrategyBruteForce.
func (b *BruteForce[T]) Name() string {
	return StrategyBruteForce
}

// FrequentItemsets implements Miner.
func (b *BruteForce[T]) FrequentItemsets(universe []T, transactions []Transaction[T], minSupport MinSupport) ([]FrequentItemset[T], error) {
	e, err := NewEngine(transactions, b.opts...)
	if err != nil {
		return nil, err
	}
	return e.FrequentItemsets(universe, minSupport)
}

// FindFrequentItemsets returns every itemset over universe whose support in
// transactions reaches minSupport, using brute-force enumeration.
func FindFrequentItemsets[T comparable](universe []T, transactions []Transaction[T], minSupport MinSupport) ([]FrequentItemset[T], error) {
	return NewBruteForce[T]().FrequentItemsets(universe, transactions, minSupport)
}
