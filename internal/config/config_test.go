package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/mining"
)

// isolate points the config directory at an empty temp dir and clears
// BASKETMINER_* variables that might leak in from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, key := range []string{"MIN_SUPPORT", "MIN_CONFIDENCE", "UNIVERSE", "INFER_UNIVERSE", "STRATEGIES", "LOG_LEVEL", "DB", "CACHE_SIZE", "WATCH_DEBOUNCE", "JSON_LOGS"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return filepath.Join(xdg, "basketminer")
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("min-support", "", "")
	fs.Float64("min-confidence", 0, "")
	fs.StringSlice("universe", nil, "")
	fs.String("log-level", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultMinSupport, cfg.MinSupport)
	assert.Equal(t, DefaultMinConfidence, cfg.MinConfidence)
	assert.Equal(t, mining.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
	assert.Equal(t, dataset.DefaultUniverse, cfg.Universe)
	assert.False(t, cfg.InferUniverse)
	assert.Empty(t, cfg.Strategies)
	assert.Empty(t, cfg.File)
	assert.NotNil(t, cfg.Aliases)

	ms, err := cfg.Support()
	require.NoError(t, err)
	assert.Equal(t, mining.Count(2), ms)
}

func TestLoad_ConfigDirFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
min_support: "10%"
min_confidence: 0.8
universe: [Milk, Bread]
strategies: [apriori]
watch_debounce: 2s
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aliases"), []byte("pop=Soda\n"), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "10%", cfg.MinSupport)
	assert.Equal(t, 0.8, cfg.MinConfidence)
	assert.Equal(t, []string{"Milk", "Bread"}, cfg.Universe)
	assert.Equal(t, []string{"apriori"}, cfg.Strategies)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
	assert.Equal(t, "Soda", cfg.Aliases.Canonical("pop"))
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)

	ms, err := cfg.Support()
	require.NoError(t, err)
	assert.True(t, ms.IsFraction())
	assert.Equal(t, 2, ms.Resolve(20))
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "basket.yaml")
	require.NoError(t, os.WriteFile(file, []byte("min_support: \"5\"\nmin_confidence: 0.3\nlog_level: warn\n"), 0644))

	t.Setenv("BASKETMINER_MIN_CONFIDENCE", "0.6")
	t.Setenv("BASKETMINER_UNIVERSE", "Milk,Cheese, Bread")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--min-support", "0.25"}))

	cfg, err := Load(file, fs)
	require.NoError(t, err)

	assert.Equal(t, "0.25", cfg.MinSupport, "flag beats file")
	assert.Equal(t, 0.6, cfg.MinConfidence, "env beats file")
	assert.Equal(t, "warn", cfg.LogLevel, "file beats default")
	assert.Equal(t, []string{"Milk", "Cheese", "Bread"}, cfg.Universe)
}

func TestLoad_UnsetFlagsKeepDefaults(t *testing.T) {
	isolate(t)
	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, DefaultMinSupport, cfg.MinSupport)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, dataset.DefaultUniverse, cfg.Universe)
}

func TestLoad_InferUniverseFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BASKETMINER_INFER_UNIVERSE", "true")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.InferUniverse)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"negative count", "BASKETMINER_MIN_SUPPORT", "-1"},
		{"fraction above one", "BASKETMINER_MIN_SUPPORT", "1.5"},
		{"garbage support", "BASKETMINER_MIN_SUPPORT", "lots"},
		{"confidence above one", "BASKETMINER_MIN_CONFIDENCE", "1.2"},
		{"negative cache", "BASKETMINER_CACHE_SIZE", "-5"},
		{"zero debounce", "BASKETMINER_WATCH_DEBOUNCE", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)
			_, err := Load("", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ThresholdErrorsAreTyped(t *testing.T) {
	isolate(t)
	t.Setenv("BASKETMINER_MIN_CONFIDENCE", "2")
	_, err := Load("", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mining.ErrInvalidThreshold))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ""}))
	assert.Equal(t, []string{}, splitList(nil))
}
