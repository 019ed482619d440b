package cli

import (
	"path/filepath"
	"testing"

	"github.com/capsulekit/capsule/internal/record"
)

func TestRunPruneDryRunDoesNotDelete(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("CAPSULE_CONFIG_DIR", dir)

	storePath := filepath.Join(dir, "capsule.db")
	store, err := record.Open(storePath)
	if err != nil {
		t.Fatal(err)
	}
	r := &record.ContextRecord{Namespace: "proj/abc/session/s1", Title: "summary", Type: record.TypeMeta}
	if err := store.Save(r); err != nil {
		t.Fatal(err)
	}
	store.Close()

	pruneDryRun = true
	t.Cleanup(func() { pruneDryRun = false })

	if err := runPrune(pruneCmd, []string{"0"}); err != nil {
		t.Fatalf("runPrune: %v", err)
	}

	store2, err := record.Open(storePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()
	recs, err := store2.List("proj/abc/session/s1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("dry-run prune must not delete: expected 1 record, got %d", len(recs))
	}
}
