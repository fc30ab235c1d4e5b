package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

func TestMineCommandFlags(t *testing.T) {
	for _, name := range []string{"min-support", "min-confidence", "universe", "infer-universe", "cache-size", "no-record", "strategy", "itemsets-only"} {
		if mineCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag on mine", name)
		}
	}
}

func TestMine_Example(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)
	db := filepath.Join(home, "runs.db")

	out, err := executeCommand(t, "mine", file, "--db", db, "--universe", "A,B,C", "--min-support", "2", "--min-confidence", "0.5")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}

	for _, expected := range []string{
		"4 transactions, 3 items",
		"Frequent itemsets (5, brute-force)",
		"{A, B}",
		"{B, C}",
		"Association rules (4)",
		"Recorded run",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("mine output missing %q\nGot:\n%s", expected, out)
		}
	}
	if strings.Contains(out, "{A, C}") {
		t.Errorf("{A, C} has support 1 and must not be listed:\n%s", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("expected database at %s: %v", db, err)
	}
}

func TestMine_StrategiesProduceSameOutput(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)

	var tables []string
	for _, s := range mining.StrategyNames() {
		out, err := executeCommand(t, "mine", file, "--no-record", "--strategy", s, "--universe", "A,B,C", "--min-support", "50%")
		if err != nil {
			t.Fatalf("mine --strategy %s failed: %v", s, err)
		}
		idx := strings.Index(out, "Size")
		if idx < 0 {
			t.Fatalf("no itemset table in output:\n%s", out)
		}
		tables = append(tables, out[idx:])
	}
	for i := 1; i < len(tables); i++ {
		if tables[i] != tables[0] {
			t.Errorf("strategy %s output differs:\n%s\nvs\n%s", mining.StrategyNames()[i], tables[i], tables[0])
		}
	}
}

func TestMine_NoRecord(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)

	out, err := executeCommand(t, "mine", file, "--no-record", "--itemsets-only")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if strings.Contains(out, "Recorded run") {
		t.Errorf("--no-record should not record:\n%s", out)
	}
	if strings.Contains(out, "Association rules") {
		t.Errorf("--itemsets-only should skip rules:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".basketminer", "basketminer.db")); !os.IsNotExist(err) {
		t.Errorf("no database should be created with --no-record (stat err %v)", err)
	}
}

func TestMine_UniverseRestricts(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)

	out, err := executeCommand(t, "mine", file, "--no-record", "--universe", "A,C", "--min-support", "1")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if strings.Contains(out, "{B}") {
		t.Errorf("B is outside the universe:\n%s", out)
	}
	if !strings.Contains(out, "{A, C}") {
		t.Errorf("expected {A, C} at support 1:\n%s", out)
	}
}

func TestMine_DefaultUniverseIsFixed(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)

	// A, B and C are not in the built-in product list.
	out, err := executeCommand(t, "mine", file, "--no-record", "--min-support", "1")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	for _, expected := range []string{"10 items", "Frequent itemsets (0, brute-force)"} {
		if !strings.Contains(out, expected) {
			t.Errorf("mine output missing %q\nGot:\n%s", expected, out)
		}
	}

	out, err = executeCommand(t, "mine", file, "--no-record", "--infer-universe", "--min-support", "2")
	if err != nil {
		t.Fatalf("mine --infer-universe failed: %v", err)
	}
	for _, expected := range []string{"3 items", "Frequent itemsets (5, brute-force)"} {
		if !strings.Contains(out, expected) {
			t.Errorf("mine --infer-universe output missing %q\nGot:\n%s", expected, out)
		}
	}
}

func TestMine_InvalidThreshold(t *testing.T) {
	home := isolateHome(t)
	file := writeExample(t, home)

	_, err := executeCommand(t, "mine", file, "--no-record", "--min-confidence", "1.5")
	if !errors.Is(err, mining.ErrInvalidThreshold) {
		t.Errorf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestMine_AliasesApplied(t *testing.T) {
	home := isolateHome(t)
	confDir := filepath.Join(home, ".config", "basketminer")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "aliases"), []byte("pop=Soda\ncola=Soda\n"), 0644); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(home, "drinks.csv")
	if err := os.WriteFile(file, []byte("pop,Chips\ncola,Chips\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "mine", file, "--no-record", "--min-support", "2")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if !strings.Contains(out, "{Chips, Soda}") {
		t.Errorf("aliases should merge pop and cola into Soda:\n%s", out)
	}
}

func TestMine_MissingFile(t *testing.T) {
	home := isolateHome(t)
	if _, err := executeCommand(t, "mine", filepath.Join(home, "nope.csv"), "--no-record"); err == nil {
		t.Error("expected error for missing file")
	}
}
