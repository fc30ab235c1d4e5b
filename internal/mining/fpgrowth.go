package mining

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// FPGrowth compresses the transactions into a prefix tree ordered by item
// frequency and mines it recursively through conditional trees, never
// generating candidates that do not occur in some transaction.
//
// A threshold that resolves to zero makes every combination frequent,
// including ones no transaction contains; the tree cannot represent those,
// so FPGrowth hands such runs to Apriori.
type FPGrowth[T comparable] struct {
	opts options
}

// NewFPGrowth returns the FP-Growth Miner.
func NewFPGrowth[T comparable](opts ...Option) *FPGrowth[T] {
	return &FPGrowth[T]{opts: buildOptions(opts)}
}

// Name returns StrategyFPGrowth.
func (f *FPGrowth[T]) Name() string {
	return StrategyFPGrowth
}

// FrequentItemsets implements Miner.
func (f *FPGrowth[T]) FrequentItemsets(universe []T, transactions []Transaction[T], minSupport MinSupport) ([]FrequentItemset[T], error) {
	if err := minSupport.Validate(); err != nil {
		return nil, err
	}

	universe = dedupe(universe)
	threshold := minSupport.Resolve(len(transactions))
	if threshold < 1 {
		f.opts.logger.WithField("strategy", StrategyFPGrowth).Debug("zero threshold, delegating to apriori")
		return (&Apriori[T]{opts: f.opts}).FrequentItemsets(universe, transactions, minSupport)
	}

	paths := make([][]int, 0, len(transactions))
	weights := make([]int, 0, len(transactions))
	for _, row := range encode(universe, transactions) {
		var path []int
		for i, ok := range row {
			if ok {
				path = append(path, i)
			}
		}
		paths = append(paths, path)
		weights = append(weights, 1)
	}

	tree := buildFPTree(paths, weights, threshold)
	result := []positional{}
	tree.mine(nil, threshold, &result)

	f.opts.logger.WithFields(logrus.Fields{
		"strategy": StrategyFPGrowth,
		"frequent": len(result),
	}).Debug("mined prefix tree")

	sortPositional(result)
	return decode(universe, result), nil
}

type fpNode struct {
	item     int
	count    int
	parent   *fpNode
	children map[int]*fpNode
}

type fpTree struct {
	root   *fpNode
	counts map[int]int       // support of each frequent item in this tree
	nodes  map[int][]*fpNode // header table
}

// buildFPTree inserts weighted paths into a new tree, keeping only items
// whose total weight reaches threshold.
func buildFPTree(paths [][]int, weights []int, threshold int) *fpTree {
	totals := make(map[int]int)
	for p, path := range paths {
		for _, item := range path {
			totals[item] += weights[p]
		}
	}

	t := &fpTree{
		root:   &fpNode{item: -1, children: make(map[int]*fpNode)},
		counts: make(map[int]int),
		nodes:  make(map[int][]*fpNode),
	}
	for item, n := range totals {
		if n >= threshold {
			t.counts[item] = n
		}
	}

	for p, path := range paths {
		kept := make([]int, 0, len(path))
		for _, item := range path {
			if _, ok := t.counts[item]; ok {
				kept = append(kept, item)
			}
		}
		// Most frequent first; ties by position so the tree shape is stable.
		sort.Slice(kept, func(i, j int) bool {
			ci, cj := t.counts[kept[i]], t.counts[kept[j]]
			if ci != cj {
				return ci > cj
			}
			return kept[i] < kept[j]
		})
		t.insert(kept, weights[p])
	}
	return t
}

func (t *fpTree) insert(path []int, weight int) {
	node := t.root
	for _, item := range path {
		child, ok := node.children[item]
		if !ok {
			child = &fpNode{item: item, parent: node, children: make(map[int]*fpNode)}
			node.children[item] = child
			t.nodes[item] = append(t.nodes[item], child)
		}
		child.count += weight
		node = child
	}
}

// mine appends every frequent itemset of the tree, each extended by suffix.
func (t *fpTree) mine(suffix []int, threshold int, out *[]positional) {
	items := make([]int, 0, len(t.counts))
	for item := range t.counts {
		items = append(items, item)
	}
	sort.Ints(items)

	for _, item := range items {
		set := make([]int, 0, len(suffix)+1)
		set = append(set, suffix...)
		set = append(set, item)

		idx := append([]int(nil), set...)
		sort.Ints(idx)
		*out = append(*out, positional{idx: idx, support: t.counts[item]})

		var paths [][]int
		var weights []int
		for _, node := range t.nodes[item] {
			var path []int
			for p := node.parent; p != nil && p.item >= 0; p = p.parent {
				path = append(path, p.item)
			}
			if len(path) == 0 {
				continue
			}
			paths = append(paths, path)
			weights = append(weights, node.count)
		}
		if len(paths) == 0 {
			continue
		}

		cond := buildFPTree(paths, weights, threshold)
		if len(cond.counts) > 0 {
			cond.mine(set, threshold, out)
		}
	}
}
