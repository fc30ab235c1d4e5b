// Package dataset reads and writes market-basket transaction files and
// generates synthetic ones.
//
// A transaction file is headerless CSV where every line lists the items of
// one basket. Lines may have any number of fields; blank fields are ignored
// and repeated items within a line are collapsed.
package dataset

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// ErrEmptyUniverse is returned when transactions are requested from an empty
// item universe.
var ErrEmptyUniverse = errors.New("item universe is empty")

// DefaultUniverse is the list of supermarket products used when no universe
// is configured.
var DefaultUniverse = []string{
	"Milk", "Cheese", "Yogurt", "Chicken", "Beef",
	"Bread", "Chips", "Cookies", "Soda", "Juice",
}

// Dataset is a named list of transactions loaded from one or more files.
type Dataset struct {
	Name         string
	Files        []string
	Transactions []mining.Transaction[string]
}

// New wraps in-memory transactions as a Dataset.
func New(name string, transactions []mining.Transaction[string]) *Dataset {
	return &Dataset{Name: name, Transactions: transactions}
}

// Len returns the number of transactions.
func (d *Dataset) Len() int {
	return len(d.Transactions)
}

// InferUniverse returns every item seen in the dataset, sorted by name.
func (d *Dataset) InferUniverse() []string {
	return InferUniverse(d.Transactions)
}

// InferUniverse returns the distinct items of transactions, sorted by name.
func InferUniverse(transactions []mining.Transaction[string]) []string {
	seen := make(map[string]struct{})
	for _, t := range transactions {
		for _, it := range t.Items() {
			seen[it] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for it := range seen {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// nameFor derives a dataset name from its file names.
func nameFor(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return strings.Join(names, "+")
}
