package identity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/capsulekit/capsule/internal/registry"
)

func TestIsDisabledWalksUpToRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if IsDisabled(nested) {
		t.Fatal("expected not disabled before marker exists")
	}
	if err := os.WriteFile(filepath.Join(root, ".capsule-disable"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsDisabled(nested) {
		t.Fatal("expected disabled once marker exists at an ancestor")
	}
}

func TestResolveCrewIdentityFromCwd(t *testing.T) {
	dir := t.TempDir()
	want := &CrewIdentity{TeammateName: "alice", Branch: "feat/a", TeamName: "t", ProfileName: "dev", CreatedAt: time.Now()}
	if err := WriteIdentityFile(dir, want); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveCrewIdentity(ResolveHint{Cwd: dir})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.TeammateName != "alice" {
		t.Fatalf("expected alice identity, got %+v", got)
	}
}

func TestResolveCrewIdentityViaRegistryWithFilePathHint(t *testing.T) {
	t.Setenv("CAPSULE_CONFIG_DIR", t.TempDir())

	wt1 := t.TempDir()
	wt2 := t.TempDir()
	if err := WriteIdentityFile(wt1, &CrewIdentity{TeammateName: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteIdentityFile(wt2, &CrewIdentity{TeammateName: "bob"}); err != nil {
		t.Fatal(err)
	}

	stateDir, err := CrewStateDir("abc123")
	if err != nil {
		t.Fatal(err)
	}
	regPath := registry.Path(stateDir)
	reg := &registry.Registry{Worktrees: []registry.Entry{
		{Name: "alice", Path: wt1},
		{Name: "bob", Path: wt2},
	}}
	if err := registry.Save(regPath, reg); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveCrewIdentity(ResolveHint{
		Cwd:         t.TempDir(), // not a worktree itself
		ProjectHash: "abc123",
		FilePath:    filepath.Join(wt2, "src", "file.go"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.TeammateName != "bob" {
		t.Fatalf("expected bob identity via registry prefix match, got %+v", got)
	}
}

func TestResolveCrewIdentityAmbiguousWithoutHint(t *testing.T) {
	t.Setenv("CAPSULE_CONFIG_DIR", t.TempDir())

	wt1 := t.TempDir()
	wt2 := t.TempDir()
	stateDir, _ := CrewStateDir("xyz")
	regPath := registry.Path(stateDir)
	reg := &registry.Registry{Worktrees: []registry.Entry{{Name: "a", Path: wt1}, {Name: "b", Path: wt2}}}
	if err := registry.Save(regPath, reg); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveCrewIdentity(ResolveHint{Cwd: t.TempDir(), ProjectHash: "xyz"})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected ambiguous resolution to return nil, got %+v", got)
	}
}
