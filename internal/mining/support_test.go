package mining

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinSupport(t *testing.T) {
	tests := []struct {
		in       string
		fraction bool
		resolved int // against 20 transactions
		wantErr  bool
	}{
		{in: "10", resolved: 10},
		{in: " 3 ", resolved: 3},
		{in: "0", resolved: 0},
		{in: "0.1", fraction: true, resolved: 2},
		{in: "0.15", fraction: true, resolved: 3},
		{in: "25%", fraction: true, resolved: 5},
		{in: "1.0", fraction: true, resolved: 20},
		{in: "1e-1", fraction: true, resolved: 2},
		{in: "-1", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "150%", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMinSupport(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fraction, m.IsFraction())
			assert.Equal(t, tt.resolved, m.Resolve(20))
		})
	}
}

func TestMinSupport_ResolvePositiveFractionAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, Fraction(0.5).Resolve(0))
	assert.Equal(t, 1, Fraction(1e-12).Resolve(2))
	assert.Equal(t, 0, Fraction(0).Resolve(10))
}

func TestMinSupport_String(t *testing.T) {
	assert.Equal(t, "10", Count(10).String())
	assert.Equal(t, "0.25", Fraction(0.25).String())
}

func TestValidateConfidence(t *testing.T) {
	assert.NoError(t, ValidateConfidence(0))
	assert.NoError(t, ValidateConfidence(0.5))
	assert.NoError(t, ValidateConfidence(1))

	for _, c := range []float64{-0.5, 1.5, math.NaN()} {
		err := ValidateConfidence(c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidThreshold))
	}
}

func TestSupportCounter_KeyIgnoresOrder(t *testing.T) {
	c, err := NewSupportCounter(exampleTransactions(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Support(Itemset[string]{"A", "B"}))
	assert.Equal(t, 2, c.Support(Itemset[string]{"B", "A"}))
	assert.Equal(t, 1, c.Scans())
	assert.Equal(t, 1, c.Hits())
}

func TestSupportCounter_SmallCacheStillCorrect(t *testing.T) {
	c, err := NewSupportCounter(exampleTransactions(), 1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 3, c.Support(Itemset[string]{"A"}))
		assert.Equal(t, 2, c.Support(Itemset[string]{"C"}))
	}
	// The single slot is evicted on every lookup.
	assert.Equal(t, 6, c.Scans())
	assert.Equal(t, 4, c.Transactions())
}

func TestItemset_SetOperations(t *testing.T) {
	s := Itemset[string]{"A", "B", "C"}

	assert.True(t, s.Equal(Itemset[string]{"C", "A", "B"}))
	assert.False(t, s.Equal(Itemset[string]{"A", "B"}))
	assert.True(t, s.Disjoint(Itemset[string]{"D"}))
	assert.False(t, s.Disjoint(Itemset[string]{"D", "B"}))
	assert.Equal(t, Itemset[string]{"A", "C"}, s.Without(Itemset[string]{"B"}))
}

func TestForEachCombination(t *testing.T) {
	var got [][]int
	forEachCombination(4, 2, func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	calls := 0
	forEachCombination(3, 4, func([]int) { calls++ })
	forEachCombination(3, 0, func([]int) { calls++ })
	assert.Zero(t, calls)
}
