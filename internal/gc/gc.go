// Package gc implements §4.12: scanning the global crew state area for orphaned worktree
// registrations (worktree directories that no longer exist on disk), reporting their disk
// footprint, and reclaiming them — optionally deleting the backing git branch too.
package gc

import (
	"os"
	"path/filepath"

	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/registry"
)

// OrphanedEntry is a registered worktree whose directory no longer exists.
type OrphanedEntry struct {
	ProjectHash string
	Entry       registry.Entry
	SizeBytes   int64
}

// Plan is the full set of reclaimable entries found across every project under the global crew
// state area, with a running total.
type Plan struct {
	Orphans        []OrphanedEntry
	TotalSizeBytes int64
}

// ScanProjects lists the project-hash subdirectories under `<global>/crew`.
func ScanProjects(crewRoot string) ([]string, error) {
	entries, err := os.ReadDir(crewRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var hashes []string
	for _, e := range entries {
		if e.IsDir() {
			hashes = append(hashes, e.Name())
		}
	}
	return hashes, nil
}

// Scan walks every project under crewRoot and reports worktree registry entries whose path no
// longer exists on disk. A registered-but-gone entry is orphaned regardless of why it
// disappeared (manual rm -rf, a crashed teardown, a moved repo).
func Scan(crewRoot string) (*Plan, error) {
	hashes, err := ScanProjects(crewRoot)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	for _, hash := range hashes {
		projectDir := filepath.Join(crewRoot, hash)
		regPath := registry.Path(projectDir)
		reg, err := registry.Load(regPath)
		if err != nil {
			return nil, err
		}

		for _, entry := range reg.Worktrees {
			if dirExists(entry.Path) {
				continue
			}
			size := dirSize(entry.Path)
			plan.Orphans = append(plan.Orphans, OrphanedEntry{ProjectHash: hash, Entry: entry, SizeBytes: size})
		}
	}

	for _, o := range plan.Orphans {
		plan.TotalSizeBytes += o.SizeBytes
	}
	return plan, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// dirSize sums the apparent size of every regular file under path; best-effort, zero on error.
func dirSize(path string) int64 {
	var total int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}

// Options controls a reclaim run.
type Options struct {
	DryRun         bool
	DeleteBranches bool
	// BranchDeleter is the project's git wrapper, used only when DeleteBranches is set. It is
	// typically rooted at the main project worktree since the orphaned worktree directory
	// itself is gone.
	BranchDeleter *gitw.Git
}

// Result reports what Reclaim did (or, under DryRun, would do).
type Result struct {
	Removed []OrphanedEntry
}

// Reclaim removes every orphaned entry found by Scan from its project's registry, and — when
// requested — deletes the backing branch too. Under DryRun, nothing is written; the plan's
// entries are echoed back as the would-be result so callers can render an identical report.
func Reclaim(crewRoot string, plan *Plan, opts Options) (*Result, error) {
	result := &Result{}
	if opts.DryRun {
		result.Removed = plan.Orphans
		return result, nil
	}

	byProject := map[string][]registry.Entry{}
	for _, o := range plan.Orphans {
		byProject[o.ProjectHash] = append(byProject[o.ProjectHash], o.Entry)
	}

	for hash, entries := range byProject {
		projectDir := filepath.Join(crewRoot, hash)
		regPath := registry.Path(projectDir)
		for _, entry := range entries {
			if _, err := registry.Remove(regPath, entry.Name); err != nil {
				return nil, err
			}
		}
	}

	for _, o := range plan.Orphans {
		if opts.DeleteBranches && opts.BranchDeleter != nil {
			_ = opts.BranchDeleter.DeleteBranch(o.Entry.Branch)
		}
		result.Removed = append(result.Removed, o)
	}
	return result, nil
}
