package dataset

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	baskets, err := Generate(rng, DefaultUniverse, 200)
	require.NoError(t, err)
	require.Len(t, baskets, 200)

	allowed := map[string]bool{}
	for _, it := range DefaultUniverse {
		allowed[it] = true
	}

	for _, b := range baskets {
		assert.GreaterOrEqual(t, len(b), 1)
		assert.LessOrEqual(t, len(b), len(DefaultUniverse))

		seen := map[string]bool{}
		for _, it := range b {
			assert.True(t, allowed[it], "unexpected item %q", it)
			assert.False(t, seen[it], "item %q drawn twice", it)
			seen[it] = true
		}
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	a, err := Generate(rand.New(rand.NewSource(99)), DefaultUniverse, 20)
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(99)), DefaultUniverse, 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_EmptyUniverse(t *testing.T) {
	_, err := Generate(rand.New(rand.NewSource(1)), nil, 5)
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestGenerate_NegativeCount(t *testing.T) {
	_, err := Generate(rand.New(rand.NewSource(1)), DefaultUniverse, -1)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "database3.csv"), FileName("out", "database", 3))
}
