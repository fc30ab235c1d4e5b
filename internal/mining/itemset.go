package mining

// Itemset is a non-empty collection of distinct items. Itemsets produced by
// a Miner are ordered by the position of each item in the universe.
type Itemset[T comparable] []T

// Len returns the number of items in the itemset.
func (s Itemset[T]) Len() int {
	return len(s)
}

// Contains reports whether item is a member of the itemset.
func (s Itemset[T]) Contains(item T) bool {
	for _, it := range s {
		if it == item {
			return true
		}
	}
	return false
}

// Equal reports whether both itemsets hold the same items, ignoring order.
func (s Itemset[T]) Equal(other Itemset[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for _, it := range other {
		if !s.Contains(it) {
			return false
		}
	}
	return true
}

// Disjoint reports whether the itemsets share no item.
func (s Itemset[T]) Disjoint(other Itemset[T]) bool {
	for _, it := range other {
		if s.Contains(it) {
			return false
		}
	}
	return true
}

// Without returns the items of s that are not in other, keeping the order
// of s.
func (s Itemset[T]) Without(other Itemset[T]) Itemset[T] {
	out := make(Itemset[T], 0, len(s))
	for _, it := range s {
		if !other.Contains(it) {
			out = append(out, it)
		}
	}
	return out
}

// Transaction is an immutable set of items bought together.
type Transaction[T comparable] struct {
	items map[T]struct{}
}

// NewTransaction builds a transaction from items. Duplicates are collapsed.
func NewTransaction[T comparable](items ...T) Transaction[T] {
	t := Transaction[T]{items: make(map[T]struct{}, len(items))}
	for _, it := range items {
		t.items[it] = struct{}{}
	}
	return t
}

// Len returns the number of distinct items in the transaction.
func (t Transaction[T]) Len() int {
	return len(t.items)
}

// Has reports whether the transaction contains item.
func (t Transaction[T]) Has(item T) bool {
	_, ok := t.items[item]
	return ok
}

// ContainsAll reports whether every item of s is in the transaction.
func (t Transaction[T]) ContainsAll(s Itemset[T]) bool {
	for _, it := range s {
		if _, ok := t.items[it]; !ok {
			return false
		}
	}
	return true
}

// Items returns the transaction's items in unspecified order.
func (t Transaction[T]) Items() []T {
	out := make([]T, 0, len(t.items))
	for it := range t.items {
		out = append(out, it)
	}
	return out
}

// FrequentItemset is an itemset together with its absolute support count.
type FrequentItemset[T comparable] struct {
	Items   Itemset[T]
	Support int
}

// Itemsets strips the support counts from a list of frequent itemsets.
func Itemsets[T comparable](frequent []FrequentItemset[T]) []Itemset[T] {
	out := make([]Itemset[T], len(frequent))
	for i, f := range frequent {
		out[i] = f.Items
	}
	return out
}

// Rule is an association rule Antecedent -> Consequent.
type Rule[T comparable] struct {
	Antecedent        Itemset[T]
	Consequent        Itemset[T]
	Support           int // support of Antecedent ∪ Consequent
	AntecedentSupport int
	Confidence        float64
}
