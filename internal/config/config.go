package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/basketminer/internal/dataset"
	"github.com/blackwell-systems/basketminer/internal/mining"
)

// EnvPrefix prefixes every environment variable read by Load, as in
// BASKETMINER_MIN_SUPPORT.
const EnvPrefix = "BASKETMINER"

// Default values.
const (
	DefaultLogLevel      = "info"
	DefaultMinSupport    = "2"
	DefaultMinConfidence = 0.5
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Config is the merged configuration of a basketminer invocation.
type Config struct {
	DB            string
	LogLevel      string
	JSONLogs      bool
	Universe      []string
	InferUniverse bool
	MinSupport    string
	MinConfidence float64
	CacheSize     int
	Strategies    []string
	WatchDebounce time.Duration
	Aliases       *AliasConfig

	// File is the config file that was read, empty if none.
	File string
}

// Load merges defaults, the config file, BASKETMINER_* environment variables
// and the flags in flags, in increasing order of precedence. A flag named
// "min-support" sets the key "min_support".
//
// configFile names an explicit config file, which must exist. When empty,
// config.yaml in Dir() is read if present.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("db", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json_logs", false)
	v.SetDefault("universe", dataset.DefaultUniverse)
	v.SetDefault("infer_universe", false)
	v.SetDefault("min_support", DefaultMinSupport)
	v.SetDefault("min_confidence", DefaultMinConfidence)
	v.SetDefault("cache_size", mining.DefaultCacheSize)
	v.SetDefault("strategies", []string{})
	v.SetDefault("watch_debounce", DefaultWatchDebounce)

	dir := ""
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		dir = filepath.Dir(configFile)
	} else {
		d, err := Dir()
		if err == nil {
			dir = d
			v.AddConfigPath(d)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	cfg := &Config{
		DB:            v.GetString("db"),
		LogLevel:      v.GetString("log_level"),
		JSONLogs:      v.GetBool("json_logs"),
		Universe:      splitList(v.GetStringSlice("universe")),
		InferUniverse: v.GetBool("infer_universe"),
		MinSupport:    v.GetString("min_support"),
		MinConfidence: v.GetFloat64("min_confidence"),
		CacheSize:     v.GetInt("cache_size"),
		Strategies:    splitList(v.GetStringSlice("strategies")),
		WatchDebounce: v.GetDuration("watch_debounce"),
		File:          v.ConfigFileUsed(),
	}

	cfg.Aliases = &AliasConfig{Aliases: map[string]string{}}
	if dir != "" {
		aliases, err := LoadAliases(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load aliases: %w", err)
		}
		cfg.Aliases = aliases
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every threshold and limit.
func (c *Config) Validate() error {
	if _, err := c.Support(); err != nil {
		return err
	}
	if err := mining.ValidateConfidence(c.MinConfidence); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache_size %d: must not be negative", c.CacheSize)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("invalid watch_debounce %s: must be positive", c.WatchDebounce)
	}
	return nil
}

// Support parses MinSupport.
func (c *Config) Support() (mining.MinSupport, error) {
	return mining.ParseMinSupport(c.MinSupport)
}

// splitList flattens comma-separated entries, which is how list values
// arrive from environment variables.
func splitList(in []string) []string {
	out := []string{}
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
