package mining

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of itemset supports a SupportCounter keeps
// when no explicit size is given.
const DefaultCacheSize = 1 << 16

// fractionEpsilon absorbs float error when a fraction is scaled to a count,
// so that 0.1 of 20 transactions resolves to 2 and not 3.
const fractionEpsilon = 1e-9

// MinSupport is a minimum support threshold expressed either as an absolute
// transaction count or as a fraction of the transaction count. A run uses
// exactly one of the two units.
type MinSupport struct {
	count    int
	fraction float64
	relative bool
}

// Count returns an absolute support threshold.
func Count(n int) MinSupport {
	return MinSupport{count: n}
}

// Fraction returns a support threshold relative to the number of
// transactions, in the range [0, 1].
func Fraction(f float64) MinSupport {
	return MinSupport{fraction: f, relative: true}
}

// ParseMinSupport parses a threshold from text. Integers ("10") are absolute
// counts; decimals ("0.1") and percentages ("10%") are fractions.
func ParseMinSupport(s string) (MinSupport, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MinSupport{}, fmt.Errorf("empty min support")
	}

	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return MinSupport{}, fmt.Errorf("invalid min support %q: %w", s, err)
		}
		m := Fraction(f / 100)
		return m, m.Validate()
	}

	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return MinSupport{}, fmt.Errorf("invalid min support %q: %w", s, err)
		}
		m := Fraction(f)
		return m, m.Validate()
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return MinSupport{}, fmt.Errorf("invalid min support %q: %w", s, err)
	}
	m := Count(n)
	return m, m.Validate()
}

// IsFraction reports whether the threshold is relative to the transaction count.
func (m MinSupport) IsFraction() bool {
	return m.relative
}

// Validate rejects negative counts and fractions outside [0, 1].
func (m MinSupport) Validate() error {
	if m.relative {
		if math.IsNaN(m.fraction) || m.fraction < 0 || m.fraction > 1 {
			return thresholdf("min support", m.fraction, "must be a fraction between 0 and 1")
		}
		return nil
	}
	if m.count < 0 {
		return thresholdf("min support", float64(m.count), "must not be negative")
	}
	return nil
}

// Resolve converts the threshold into an absolute count for a transaction
// set of size n. A positive fraction never resolves below 1: an itemset
// contained in no transaction has proportion 0.
func (m MinSupport) Resolve(n int) int {
	if !m.relative {
		return m.count
	}
	c := int(math.Ceil(m.fraction*float64(n) - fractionEpsilon))
	if m.fraction > 0 && c < 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}

func (m MinSupport) String() string {
	if m.relative {
		return strconv.FormatFloat(m.fraction, 'g', -1, 64)
	}
	return strconv.Itoa(m.count)
}

// ValidateConfidence rejects confidence thresholds outside [0, 1].
func ValidateConfidence(c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return thresholdf("min confidence", c, "must be between 0 and 1")
	}
	return nil
}

// SupportCounter counts how many transactions contain an itemset and
// memoizes the result. Evicted entries are recounted on the next lookup.
// A SupportCounter is not safe for concurrent use.
type SupportCounter[T comparable] struct {
	transactions []Transaction[T]
	ids          map[T]int
	cache        *lru.Cache[string, int]
	scans        int
	hits         int
}

// NewSupportCounter returns a counter over transactions that remembers up to
// cacheSize itemset supports. A non-positive cacheSize selects
// DefaultCacheSize.
func NewSupportCounter[T comparable](transactions []Transaction[T], cacheSize int) (*SupportCounter[T], error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, int](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create support cache: %w", err)
	}
	return &SupportCounter[T]{
		transactions: transactions,
		ids:          make(map[T]int),
		cache:        cache,
	}, nil
}

// Support returns the number of transactions that contain every item of s.
func (c *SupportCounter[T]) Support(s Itemset[T]) int {
	key := c.key(s)
	if n, ok := c.cache.Get(key); ok {
		c.hits++
		return n
	}

	n := 0
	for _, t := range c.transactions {
		if t.ContainsAll(s) {
			n++
		}
	}
	c.scans++
	c.cache.Add(key, n)
	return n
}

// Transactions returns the number of transactions being counted over.
func (c *SupportCounter[T]) Transactions() int {
	return len(c.transactions)
}

// Scans returns how many itemsets were counted by a full pass over the
// transactions.
func (c *SupportCounter[T]) Scans() int {
	return c.scans
}

// Hits returns how many lookups were answered from the cache.
func (c *SupportCounter[T]) Hits() int {
	return c.hits
}

// key builds an order-independent cache key for s.
func (c *SupportCounter[T]) key(s Itemset[T]) string {
	ids := make([]int, len(s))
	for i, it := range s {
		id, ok := c.ids[it]
		if !ok {
			id = len(c.ids)
			c.ids[it] = id
		}
		ids[i] = id
	}
	sort.Ints(ids)

	buf := make([]byte, 0, len(ids)*4)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}
