// Package mergepilot implements §4.10: dry-run merge-conflict previews across teammate branches,
// overlap detection, and an ordered merge execution with a pre-merge backup tag and a
// test-gated rollback.
package mergepilot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/capsulekit/capsule/internal/gitw"
)

// BranchPreview is one teammate branch's merge-ability against the target branch.
type BranchPreview struct {
	Teammate      string
	Branch        string
	ChangedFiles  []string
	Conflict      bool
	ConflictFiles []string
}

// Overlap records two teammates whose branches touch the same file, a likely source of merge
// conflicts even when each merges cleanly in isolation.
type Overlap struct {
	File      string
	Teammates [2]string
}

// PreviewResult bundles per-branch previews with cross-branch overlap warnings.
type PreviewResult struct {
	Target   string
	Branches []BranchPreview
	Overlaps []Overlap
}

// TeammateBranch names one teammate's branch to preview/merge.
type TeammateBranch struct {
	Teammate string
	Branch   string
}

// Preview runs a dry-run merge check (§4.10 step 1) for each teammate branch against target,
// then cross-references changed-file sets to flag overlapping work.
func Preview(g *gitw.Git, target string, branches []TeammateBranch) (*PreviewResult, error) {
	result := &PreviewResult{Target: target}

	for _, tb := range branches {
		files, err := g.DiffNameOnly(target, tb.Branch)
		if err != nil {
			return nil, fmt.Errorf("diff %s: %w", tb.Branch, err)
		}
		mt, err := g.MergeTreeDryRun(target, tb.Branch)
		if err != nil {
			return nil, fmt.Errorf("merge-tree dry run %s: %w", tb.Branch, err)
		}
		result.Branches = append(result.Branches, BranchPreview{
			Teammate: tb.Teammate, Branch: tb.Branch, ChangedFiles: files,
			Conflict: mt.Conflict, ConflictFiles: mt.ConflictFiles,
		})
	}

	result.Overlaps = detectOverlaps(result.Branches)
	return result, nil
}

func detectOverlaps(previews []BranchPreview) []Overlap {
	var overlaps []Overlap
	for i := 0; i < len(previews); i++ {
		for j := i + 1; j < len(previews); j++ {
			seen := map[string]bool{}
			for _, f := range previews[i].ChangedFiles {
				seen[f] = true
			}
			for _, f := range previews[j].ChangedFiles {
				if seen[f] {
					overlaps = append(overlaps, Overlap{
						File:      f,
						Teammates: [2]string{previews[i].Teammate, previews[j].Teammate},
					})
				}
			}
		}
	}
	return overlaps
}

// ExecResult is the structured outcome of Execute (§4.10 step 2).
type ExecResult struct {
	Success   []string
	Failed    []string
	Skipped   []string
	BackupTag string
}

// TestRunner runs the caller-supplied test gate after each merge; a non-nil error rolls the
// target branch back to the commit it was at just before that branch's merge.
type TestRunner func() error

// Execute merges each clean (non-conflicting) branch from a prior Preview into target, in order,
// tagging the pre-run HEAD first as a backup. Branches with conflicts are skipped rather than
// merged. A branch whose post-merge test run fails is rolled back via ResetHard to the commit
// recorded just before its own merge and reported as failed; branches merged before the
// failure are NOT undone (§4.10: "roll back the branch that failed, not the whole run").
func Execute(g *gitw.Git, preview *PreviewResult, runTests TestRunner) (*ExecResult, error) {
	backupTag := fmt.Sprintf("crew-backup-%s-%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
	if err := g.Tag(backupTag); err != nil {
		return nil, fmt.Errorf("tag backup: %w", err)
	}

	result := &ExecResult{BackupTag: backupTag}

	for _, bp := range preview.Branches {
		if bp.Conflict {
			result.Skipped = append(result.Skipped, bp.Branch)
			continue
		}

		preMerge, err := g.RevParse("HEAD")
		if err != nil {
			return result, fmt.Errorf("resolving HEAD before merging %s: %w", bp.Branch, err)
		}

		if err := g.Merge(bp.Branch); err != nil {
			_ = g.MergeAbort()
			result.Failed = append(result.Failed, bp.Branch)
			continue
		}

		if runTests != nil {
			if err := runTests(); err != nil {
				if rerr := g.ResetHard(preMerge); rerr != nil {
					return result, fmt.Errorf("rollback after test failure on %s: %w", bp.Branch, rerr)
				}
				result.Failed = append(result.Failed, bp.Branch)
				continue
			}
		}

		result.Success = append(result.Success, bp.Branch)
	}

	return result, nil
}
