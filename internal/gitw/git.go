// Package gitw wraps the git CLI with the small surface the worktree manager, merge pilot, and
// health monitor need. Every operation shells out to the git binary on PATH; there is no
// libgit2/go-git dependency because the teacher's own git wrapper does the same thing.
package gitw

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotARepo is returned when an operation requires a git repository and none is found.
var ErrNotARepo = errors.New("not a git repository")

// Git runs git commands rooted at Dir.
type Git struct {
	Dir string
}

// NewGit returns a Git rooted at dir.
func NewGit(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.Dir
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// IsRepo reports whether Dir is inside a git working tree.
func (g *Git) IsRepo() bool {
	_, err := g.run("rev-parse", "--is-inside-work-tree")
	return err == nil
}

// CloneWithReference clones src into dst using referenceSrc as an object-sharing reference
// (git clone --reference). Falls back to a plain clone if referenceSrc is empty.
func (g *Git) CloneWithReference(src, dst, referenceSrc string) error {
	args := []string{"clone"}
	if referenceSrc != "" {
		args = append(args, "--reference", referenceSrc)
	}
	args = append(args, src, dst)
	cmd := exec.Command("git", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// RemoteURL returns the URL for the given remote (default "origin"), or "" if unset.
func (g *Git) RemoteURL(remote string) string {
	if remote == "" {
		remote = "origin"
	}
	out, err := g.run("remote", "get-url", remote)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// CurrentBranch returns the checked-out branch name, or "" if detached/unknown.
func (g *Git) CurrentBranch() string {
	out, err := g.run("symbolic-ref", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// DefaultBranch resolves the remote HEAD symbolic ref (origin/HEAD), falling back to "main"
// then "master" if unresolvable.
func (g *Git) DefaultBranch() string {
	out, err := g.run("symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		trimmed := strings.TrimSpace(out)
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
			return trimmed[idx+1:]
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if g.BranchExistsLocal(candidate) {
			return candidate
		}
	}
	return "main"
}

// BranchExistsLocal reports whether a local branch ref exists.
func (g *Git) BranchExistsLocal(branch string) bool {
	_, err := g.run("show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// BranchExistsRemote reports whether branch exists on the given remote (default "origin").
func (g *Git) BranchExistsRemote(remote, branch string) bool {
	if remote == "" {
		remote = "origin"
	}
	_, err := g.run("show-ref", "--verify", "--quiet", "refs/remotes/"+remote+"/"+branch)
	return err == nil
}

// CommitsBehind returns how many commits `branch` is behind `ref` (e.g. the main branch).
func (g *Git) CommitsBehind(branch, ref string) (int, error) {
	out, err := g.run("rev-list", "--count", branch+".."+ref)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// WorktreeAdd creates a new worktree at path checking out (or creating) branch.
// If the branch exists locally it is checked out; otherwise -b creates it fresh.
func (g *Git) WorktreeAdd(path, branch string) error {
	if g.BranchExistsLocal(branch) {
		_, err := g.run("worktree", "add", path, branch)
		return err
	}
	_, err := g.run("worktree", "add", "-b", branch, path)
	return err
}

// WorktreeAddTracking creates a worktree on a new local branch tracking remote/branch.
func (g *Git) WorktreeAddTracking(path, branch, remote string) error {
	if remote == "" {
		remote = "origin"
	}
	_, err := g.run("worktree", "add", "-b", branch, path, remote+"/"+branch)
	return err
}

// WorktreeAddFrom creates a worktree at path on a new branch created from base.
func (g *Git) WorktreeAddFrom(path, branch, base string) error {
	_, err := g.run("worktree", "add", "-b", branch, path, base)
	return err
}

// WorktreeRemove removes the worktree at path. force maps to --force.
func (g *Git) WorktreeRemove(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := g.run(args...)
	return err
}

// WorktreePrune removes stale worktree administrative files.
func (g *Git) WorktreePrune() error {
	_, err := g.run("worktree", "prune")
	return err
}

// ListWorktrees returns the paths of registered worktrees (via `git worktree list --porcelain`).
func (g *Git) ListWorktrees() ([]string, error) {
	out, err := g.run("worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "worktree ") {
			paths = append(paths, strings.TrimPrefix(line, "worktree "))
		}
	}
	return paths, nil
}

// Fetch runs `git fetch <remote>`.
func (g *Git) Fetch(remote string) error {
	_, err := g.run("fetch", remote)
	return err
}

// UncommittedWorkStatus summarizes the working tree's dirty state.
type UncommittedWorkStatus struct {
	DirtyFiles      int
	StashCount      int
	UnpushedCommits int
}

// Clean reports whether the worktree has no uncommitted changes, stashes, or unpushed commits.
func (s *UncommittedWorkStatus) Clean() bool {
	return s.DirtyFiles == 0 && s.StashCount == 0 && s.UnpushedCommits == 0
}

// CheckUncommittedWork inspects the working tree for uncommitted changes, stashes, and commits
// not yet pushed to the branch's upstream.
func (g *Git) CheckUncommittedWork() (*UncommittedWorkStatus, error) {
	status := &UncommittedWorkStatus{}

	out, err := g.run("status", "--porcelain")
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			status.DirtyFiles++
		}
	}

	if out, err := g.run("stash", "list"); err == nil {
		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			if strings.TrimSpace(line) != "" {
				status.StashCount++
			}
		}
	}

	if out, err := g.run("rev-list", "--count", "@{u}..HEAD"); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(out)); convErr == nil {
			status.UnpushedCommits = n
		}
	}

	return status, nil
}

// DiffNameOnly returns the files changed in the 3-dot range base...branch.
func (g *Git) DiffNameOnly(base, branch string) ([]string, error) {
	out, err := g.run("diff", "--name-only", base+"..."+branch)
	if err != nil {
		return nil, err
	}
	return splitNonEmpty(out), nil
}

// MergeTreeResult is the outcome of a dry-run conflict probe.
type MergeTreeResult struct {
	Conflict      bool
	ConflictFiles []string
	Output        string
}

// MergeTreeDryRun probes whether merging branch into base would conflict, without touching the
// working tree. Prefers `git merge-tree --write-tree <base> <branch>` (exit 1 => conflicts);
// falls back to the older ancestor-based three-argument form when unavailable.
func (g *Git) MergeTreeDryRun(base, branch string) (*MergeTreeResult, error) {
	out, err := g.run("merge-tree", "--write-tree", base, branch)
	if err == nil {
		return &MergeTreeResult{Conflict: false, Output: out}, nil
	}
	if isExitCode(err, 1) {
		return &MergeTreeResult{Conflict: true, ConflictFiles: parseConflictFiles(out), Output: out}, nil
	}

	// Fallback: older `git merge-tree <ancestor> <base> <branch>` form.
	mergeBase, mbErr := g.run("merge-base", base, branch)
	if mbErr != nil {
		return nil, fmt.Errorf("merge-tree unavailable and merge-base failed: %w", mbErr)
	}
	out, err = g.run("merge-tree", strings.TrimSpace(mergeBase), base, branch)
	if err != nil {
		return nil, fmt.Errorf("legacy merge-tree failed: %w", err)
	}
	conflict := strings.Contains(out, "<<<<<<<")
	files := parseConflictFiles(out)
	return &MergeTreeResult{Conflict: conflict, ConflictFiles: files, Output: out}, nil
}

func parseConflictFiles(output string) []string {
	var files []string
	seen := map[string]bool{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "CONFLICT") {
			if idx := strings.LastIndex(line, " "); idx >= 0 {
				f := strings.TrimSuffix(line[idx+1:], ")")
				if f != "" && !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
		}
	}
	return files
}

// Checkout checks out branch in the working tree.
func (g *Git) Checkout(branch string) error {
	_, err := g.run("checkout", branch)
	return err
}

// Merge performs `git merge --no-edit <branch>`.
func (g *Git) Merge(branch string) error {
	_, err := g.run("merge", "--no-edit", branch)
	return err
}

// MergeAbort aborts an in-progress merge.
func (g *Git) MergeAbort() error {
	_, err := g.run("merge", "--abort")
	return err
}

// DeleteBranch force-deletes a local branch.
func (g *Git) DeleteBranch(branch string) error {
	_, err := g.run("branch", "-D", branch)
	return err
}

// Tag creates a lightweight tag at HEAD.
func (g *Git) Tag(name string) error {
	_, err := g.run("tag", name)
	return err
}

// RevParse resolves a ref to its commit hash.
func (g *Git) RevParse(ref string) (string, error) {
	out, err := g.run("rev-parse", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ResetHard hard-resets the working tree to ref.
func (g *Git) ResetHard(ref string) error {
	_, err := g.run("reset", "--hard", ref)
	return err
}

// CommitsSince counts commits reachable from HEAD since the given ISO-8601 timestamp.
func (g *Git) CommitsSince(since string) (int, error) {
	out, err := g.run("rev-list", "--count", "--since="+since, "HEAD")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func isExitCode(err error, code int) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == code
	}
	return false
}
