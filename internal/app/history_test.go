package app

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/blackwell-systems/basketminer/internal/store"
)

var runIDPattern = regexp.MustCompile(`Recorded run ([0-9a-f-]{36})`)

func recordExampleRun(t *testing.T, home string) string {
	t.Helper()
	file := writeExample(t, home)
	out, err := executeCommand(t, "mine", file, "--infer-universe", "--min-support", "2")
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	m := runIDPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no run ID in output:\n%s", out)
	}
	return m[1]
}

func TestHistory_Empty(t *testing.T) {
	isolateHome(t)
	out, err := executeCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestHistory_ListAndShow(t *testing.T) {
	home := isolateHome(t)
	id := recordExampleRun(t, home)

	out, err := executeCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, id[:8]) || !strings.Contains(out, "example") {
		t.Errorf("run missing from history:\n%s", out)
	}

	out, err = executeCommand(t, "history", id[:8])
	if err != nil {
		t.Fatalf("history %s failed: %v", id[:8], err)
	}
	for _, expected := range []string{id, "brute-force", "A, B, C", "5 itemsets, 4 rules", "{B, C}", "-> {B}"} {
		if !strings.Contains(out, expected) {
			t.Errorf("history detail missing %q\nGot:\n%s", expected, out)
		}
	}
}

func TestHistory_Delete(t *testing.T) {
	home := isolateHome(t)
	id := recordExampleRun(t, home)

	if _, err := executeCommand(t, "history", "--delete"); err == nil {
		t.Error("--delete without an ID should fail")
	}

	out, err := executeCommand(t, "history", id, "--delete")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted run") {
		t.Errorf("unexpected output: %q", out)
	}

	_, err = executeCommand(t, "history", id)
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after delete, got %v", err)
	}
}

func TestHistory_UnknownRun(t *testing.T) {
	isolateHome(t)
	_, err := executeCommand(t, "history", "deadbeef")
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestResolveRun_AmbiguousPrefix(t *testing.T) {
	home := isolateHome(t)
	st, err := store.New(filepath.Join(home, "r.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if err := st.CreateSchema(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"abc-1", "abc-2"} {
		if err := st.InsertRun(&store.Run{ID: id, Dataset: "d", Strategy: "apriori"}, nil, nil); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := resolveRun(st, "abc"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
	run, err := resolveRun(st, "abc-2")
	if err != nil || run.ID != "abc-2" {
		t.Errorf("resolveRun(abc-2) = %v, %v", run, err)
	}
}

func TestHistory_ExportImport(t *testing.T) {
	home := isolateHome(t)
	id := recordExampleRun(t, home)
	exportDir := filepath.Join(home, "exports")

	out, err := executeCommand(t, "history", id[:8], "--export", exportDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Exported run "+id) {
		t.Errorf("unexpected output: %q", out)
	}
	exported := filepath.Join(exportDir, id+".json")

	// importing into the same database collides
	if _, err := executeCommand(t, "history", "--import", exported); err == nil {
		t.Error("importing an existing run should fail")
	}

	other := filepath.Join(home, "other.db")
	out, err = executeCommand(t, "--db", other, "history", "--import", exported)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported run "+id) {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = executeCommand(t, "--db", other, "history", id)
	if err != nil {
		t.Fatalf("history on imported run failed: %v", err)
	}
	if !strings.Contains(out, "5 itemsets, 4 rules") {
		t.Errorf("imported run incomplete:\n%s", out)
	}
}

func TestHistory_ExportStdout(t *testing.T) {
	home := isolateHome(t)
	id := recordExampleRun(t, home)

	out, err := executeCommand(t, "history", id, "--export", "-")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, `"id": "`+id+`"`) {
		t.Errorf("expected JSON export, got:\n%s", out)
	}
}

func TestHistory_ExportRequiresRunID(t *testing.T) {
	isolateHome(t)
	if _, err := executeCommand(t, "history", "--export", "-"); err == nil {
		t.Error("--export without an ID should fail")
	}
}

func TestHistory_LimitFooter(t *testing.T) {
	home := isolateHome(t)
	recordExampleRun(t, home)
	recordExampleRun(t, home)

	out, err := executeCommand(t, "history", "--limit", "1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "Showing 1 of 2 runs") {
		t.Errorf("expected footer with total count:\n%s", out)
	}

	out, err = executeCommand(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if strings.Contains(out, "Showing") {
		t.Errorf("no footer expected when every run is listed:\n%s", out)
	}
}
