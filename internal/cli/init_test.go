package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/capsulekit/capsule/internal/crewconfig"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v: %s", args, err, out)
	}
}

func TestRunInitWritesConfigTemplate(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := chdirTemp(t)
	runGit(t, dir, "init", "--initial-branch=main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, dir, "add", "README.md")
	runGit(t, dir, "commit", "-m", "initial")

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	cfg, err := crewconfig.Load(dir)
	if err != nil {
		t.Fatalf("loading written config: %v", err)
	}
	if cfg == nil || cfg.Team == nil {
		t.Fatal("expected a single-team config to be written")
	}
	if len(cfg.Team.Teammates) != 2 {
		t.Fatalf("expected 2 template teammates, got %d", len(cfg.Team.Teammates))
	}
	if cfg.Project.MainBranch != "main" {
		t.Fatalf("expected main branch %q, got %q", "main", cfg.Project.MainBranch)
	}
}

func TestRunInitRefusesExistingConfig(t *testing.T) {
	dir := chdirTemp(t)
	if err := crewconfig.Write(dir, &crewconfig.Config{Team: &crewconfig.Team{Name: "x"}}); err != nil {
		t.Fatal(err)
	}

	if err := runInit(initCmd, nil); err == nil {
		t.Fatal("expected an error when a config already exists")
	}
}
