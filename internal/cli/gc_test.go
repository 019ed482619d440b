package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/capsulekit/capsule/internal/registry"
)

func TestRunGCNoOrphansIsANoop(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAPSULE_CONFIG_DIR", dir)

	if err := runGC(gcCmd, nil); err != nil {
		t.Fatalf("runGC: %v", err)
	}
}

func TestRunGCForceReclaimsOrphanedEntry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAPSULE_CONFIG_DIR", dir)

	projectDir := filepath.Join(dir, "crew", "abc123")
	regPath := registry.Path(projectDir)
	entry := registry.Entry{Name: "alice", Branch: "alice-work", Path: filepath.Join(dir, "gone"), CreatedAt: time.Now()}
	if err := registry.Upsert(regPath, entry); err != nil {
		t.Fatal(err)
	}

	gcForce = true
	t.Cleanup(func() { gcForce = false })

	if err := runGC(gcCmd, nil); err != nil {
		t.Fatalf("runGC: %v", err)
	}

	reg, err := registry.Load(regPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Worktrees) != 0 {
		t.Fatalf("expected the orphaned entry to be reclaimed, got %d remaining", len(reg.Worktrees))
	}
}
