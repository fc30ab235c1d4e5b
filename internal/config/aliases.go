// Package config loads basketminer settings and item aliases.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the basketminer config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketminer if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketminer"), nil
}

// AliasConfig maps raw item spellings found in transaction files onto
// canonical item names, e.g. "pop" and "cola" onto "Soda".
type AliasConfig struct {
	Aliases map[string]string
}

// Canonical returns the canonical name for item, or item itself when no
// alias is declared.
func (c *AliasConfig) Canonical(item string) string {
	if c == nil {
		return item
	}
	if name, ok := c.Aliases[item]; ok {
		return name
	}
	return item
}

// LoadAliases reads the aliases file at {dir}/aliases and returns the parsed
// config. If the file does not exist, an empty config is returned without an
// error. Lines without a "=" or with a blank side are skipped.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	path := filepath.Join(dir, "aliases")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw, name, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		name = strings.TrimSpace(name)
		if raw == "" || name == "" {
			continue
		}

		cfg.Aliases[raw] = name
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
