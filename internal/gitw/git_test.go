package gitw

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T, dir string) *Git {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	run("init", "-q", "-b", "main")
	run("config", "user.name", "test")
	run("config", "user.email", "test@example.com")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "init")
	return NewGit(dir)
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	g := initRepo(t, dir)
	if !g.IsRepo() {
		t.Fatal("expected IsRepo() true")
	}
	other := NewGit(t.TempDir())
	if other.IsRepo() {
		t.Fatal("expected IsRepo() false for non-repo dir")
	}
}

func TestBranchExistsLocal(t *testing.T) {
	dir := t.TempDir()
	g := initRepo(t, dir)
	if !g.BranchExistsLocal("main") {
		t.Fatal("expected main to exist")
	}
	if g.BranchExistsLocal("nope") {
		t.Fatal("expected nope to not exist")
	}
}

func TestWorktreeAddAndRemove(t *testing.T) {
	dir := t.TempDir()
	g := initRepo(t, dir)

	wtPath := filepath.Join(t.TempDir(), "wt")
	if err := g.WorktreeAdd(wtPath, "feat/x"); err != nil {
		t.Fatalf("WorktreeAdd: %v", err)
	}
	if _, err := os.Stat(wtPath); err != nil {
		t.Fatalf("expected worktree dir to exist: %v", err)
	}
	if !g.BranchExistsLocal("feat/x") {
		t.Fatal("expected feat/x branch to be created")
	}

	if err := g.WorktreeRemove(wtPath, true); err != nil {
		t.Fatalf("WorktreeRemove: %v", err)
	}
	if _, err := os.Stat(wtPath); !os.IsNotExist(err) {
		t.Fatalf("expected worktree dir removed, stat err = %v", err)
	}
}

func TestDiffNameOnly(t *testing.T) {
	dir := t.TempDir()
	g := initRepo(t, dir)

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("checkout", "-q", "-b", "feat/x")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "add a.txt")

	files, err := g.DiffNameOnly("main", "feat/x")
	if err != nil {
		t.Fatalf("DiffNameOnly: %v", err)
	}
	if len(files) != 1 || files[0] != "a.txt" {
		t.Fatalf("expected [a.txt], got %v", files)
	}
}
