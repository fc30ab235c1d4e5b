package mining

// forEachCombination calls fn with every k-element combination of n
// positions, in lexicographic order. The slice passed to fn is reused
// between calls.
func forEachCombination(n, k int, fn func(idx []int)) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)

		// Find the rightmost position that can still advance.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// pick returns the items at the given positions.
func pick[T comparable](items []T, idx []int) Itemset[T] {
	out := make(Itemset[T], len(idx))
	for i, p := range idx {
		out[i] = items[p]
	}
	return out
}

// dedupe returns items with repeated entries removed, keeping the first
// occurrence of each.
func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
