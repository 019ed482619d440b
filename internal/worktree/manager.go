// Package worktree provisions and tears down per-teammate git worktrees with the hybrid
// symlinked state-directory layout described in SPEC_FULL.md §4.7.
package worktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/registry"
	"github.com/capsulekit/capsule/internal/util"
)

// ErrNotARegisteredWorktree is returned when the computed worktree path already exists on disk
// but is not a git worktree known to the source repository (§4.7 step 2).
var ErrNotARegisteredWorktree = errors.New("destination exists but is not a registered git worktree")

// Manager provisions and removes worktrees for one project.
type Manager struct {
	ProjectRoot string
	MainBranch  string
	git         *gitw.Git
}

// NewManager returns a Manager rooted at projectRoot, checking out against mainBranch.
func NewManager(projectRoot, mainBranch string) *Manager {
	return &Manager{ProjectRoot: projectRoot, MainBranch: mainBranch, git: gitw.NewGit(projectRoot)}
}

// Path computes the deterministic worktree path for a teammate (§3): the default profile uses
// `<project_root>-<sanitized_branch>`; a named profile inserts the profile name.
func Path(projectRoot, profileName, branch string) string {
	sanitized := util.SanitizeBranch(branch)
	if profileName == "" || profileName == constants.DefaultProfileName {
		return fmt.Sprintf("%s-%s", projectRoot, sanitized)
	}
	return fmt.Sprintf("%s-%s-%s", projectRoot, profileName, sanitized)
}

// ProvisionResult reports the outcome of provisioning one worktree.
type ProvisionResult struct {
	Path     string
	Branch   string
	Warnings []string
}

// ProvisionOptions carries the identity and registry context a single provision call needs.
type ProvisionOptions struct {
	TeammateName string
	Branch       string
	ProfileName  string
	TeamName     string
	ProjectHash  string
}

// Provision implements §4.7's provisioning sequence. It is idempotent: calling it again for an
// already-provisioned, registered worktree succeeds without modification.
func (m *Manager) Provision(opts ProvisionOptions) (*ProvisionResult, error) {
	wtPath := Path(m.ProjectRoot, opts.ProfileName, opts.Branch)
	result := &ProvisionResult{Path: wtPath, Branch: opts.Branch}

	if info, err := os.Stat(wtPath); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%s: %w", wtPath, ErrNotARegisteredWorktree)
		}
		paths, err := m.git.ListWorktrees()
		if err != nil {
			return nil, fmt.Errorf("listing worktrees: %w", err)
		}
		if !containsPath(paths, wtPath) {
			return nil, fmt.Errorf("%s: %w", wtPath, ErrNotARegisteredWorktree)
		}
		// Already provisioned: still ensure the state dir/identity/registry are present
		// (idempotent per §6's start-followed-by-start--fresh testable property).
	} else {
		if err := m.addWorktree(wtPath, opts.Branch, result); err != nil {
			return nil, err
		}
	}

	if err := m.setupStateDir(wtPath); err != nil {
		return nil, fmt.Errorf("setting up state directory: %w", err)
	}

	id := &identity.CrewIdentity{
		TeammateName: opts.TeammateName,
		ProjectRoot:  m.ProjectRoot,
		Branch:       opts.Branch,
		TeamName:     opts.TeamName,
		ProfileName:  opts.ProfileName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := identity.WriteIdentityFile(wtPath, id); err != nil {
		return nil, fmt.Errorf("writing identity file: %w", err)
	}

	if opts.ProjectHash != "" {
		stateDir, err := identity.CrewStateDir(opts.ProjectHash)
		if err != nil {
			return nil, err
		}
		regPath := registry.Path(stateDir)
		entry := registry.Entry{Name: opts.TeammateName, Branch: opts.Branch, Path: wtPath, CreatedAt: time.Now().UTC()}
		if err := registry.Upsert(regPath, entry); err != nil {
			return nil, fmt.Errorf("updating worktree registry: %w", err)
		}
	}

	return result, nil
}

// addWorktree implements §4.7 step 3's three-way branch resolution.
func (m *Manager) addWorktree(wtPath, branch string, result *ProvisionResult) error {
	switch {
	case m.git.BranchExistsLocal(branch):
		if behind, err := m.git.CommitsBehind(branch, m.MainBranch); err == nil && behind > 100 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("branch %q is %d commits behind %q", branch, behind, m.MainBranch))
		}
		if err := m.git.WorktreeAdd(wtPath, branch); err != nil {
			return fmt.Errorf("checking out existing local branch %q: %w", branch, err)
		}
	case m.git.BranchExistsRemote("origin", branch):
		if err := m.git.WorktreeAddTracking(wtPath, branch, "origin"); err != nil {
			return fmt.Errorf("creating tracking branch %q: %w", branch, err)
		}
	default:
		if err := m.git.WorktreeAddFrom(wtPath, branch, m.MainBranch); err != nil {
			return fmt.Errorf("creating new branch %q from %q: %w", branch, m.MainBranch, err)
		}
	}
	return nil
}

// setupStateDir constructs the worktree's local state directory containing symlinks to the
// source project's shared tooling paths, per the Layout manifest. Local files are left alone —
// they are created on demand by hooks/CLI, not here.
func (m *Manager) setupStateDir(wtPath string) error {
	layout, err := LoadLayout()
	if err != nil {
		return err
	}

	srcStateDir := filepath.Join(m.ProjectRoot, constants.StateDirName)
	dstStateDir := filepath.Join(wtPath, constants.StateDirName)
	if err := os.MkdirAll(dstStateDir, 0o755); err != nil {
		return err
	}

	for _, dir := range layout.SharedDirs {
		src := filepath.Join(srcStateDir, dir)
		if _, err := os.Stat(src); err != nil {
			continue // shared tooling not present in the source project: nothing to link
		}
		dst := filepath.Join(dstStateDir, dir)
		if err := relink(src, dst); err != nil {
			return err
		}
	}
	for _, f := range layout.SharedFiles {
		src := filepath.Join(srcStateDir, f)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(dstStateDir, f)
		if err := relink(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// relink replaces dst with a fresh symlink to src, removing any stale symlink/file first.
func relink(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return os.Symlink(src, dst)
}

// Remove tears down a worktree. Safety requirement (§4.7, the single most destructive failure
// mode if violated): every symlink inside the worktree's state directory is unlinked BEFORE the
// worktree directory is removed, so `rm -rf` can never traverse into the source project's shared
// state via a dangling or live symlink.
func (m *Manager) Remove(wtPath string) error {
	if err := unlinkStateDirSymlinks(wtPath); err != nil {
		return fmt.Errorf("unlinking state-dir symlinks: %w", err)
	}

	if err := m.git.WorktreeRemove(wtPath, true); err != nil {
		if rmErr := os.RemoveAll(wtPath); rmErr != nil {
			return fmt.Errorf("removing worktree directory after git removal failed (%v): %w", err, rmErr)
		}
	}
	_ = m.git.WorktreePrune()
	return nil
}

// unlinkStateDirSymlinks walks the worktree's state directory and removes every entry that is
// itself a symlink, leaving real local files/directories untouched. It does not follow symlinks
// while walking, so a symlinked directory's contents (the source project's shared state) are
// never visited.
func unlinkStateDirSymlinks(wtPath string) error {
	stateDir := filepath.Join(wtPath, constants.StateDirName)
	entries, err := os.ReadDir(stateDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := filepath.Join(stateDir, entry.Name())
		info, err := os.Lstat(full)
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if err := os.Remove(full); err != nil {
				return fmt.Errorf("removing symlink %s: %w", full, err)
			}
		}
	}
	return nil
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}
	return false
}
