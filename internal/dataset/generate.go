package dataset

import (
	"fmt"
	"math/rand"
	"path/filepath"
)

// Basket draws one random basket: between one and len(universe) distinct
// items, sampled without replacement.
func Basket(rng *rand.Rand, universe []string) []string {
	size := 1 + rng.Intn(len(universe))
	perm := rng.Perm(len(universe))[:size]
	items := make([]string, size)
	for i, p := range perm {
		items[i] = universe[p]
	}
	return items
}

// Generate draws n random baskets over universe.
func Generate(rng *rand.Rand, universe []string, n int) ([][]string, error) {
	if len(universe) == 0 {
		return nil, ErrEmptyUniverse
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid transaction count: %d (must not be negative)", n)
	}

	baskets := make([][]string, n)
	for i := range baskets {
		baskets[i] = Basket(rng, universe)
	}
	return baskets, nil
}

// FileName returns the path of the i-th generated database, counting from 1.
func FileName(dir, prefix string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d.csv", prefix, i))
}
