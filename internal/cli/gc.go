package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/gc"
	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/identity"
)

var (
	gcDeleteBranches bool
	gcForce          bool
)

var gcCmd = &cobra.Command{
	Use:     "gc",
	GroupID: GroupMaintenance,
	Short:   "Reclaim worktree registrations whose directories no longer exist on disk",
	RunE:    runGC,
}

func init() {
	gcCmd.Flags().BoolVar(&gcDeleteBranches, "delete-branches", false, "also delete the backing git branch for each reclaimed worktree")
	gcCmd.Flags().BoolVar(&gcForce, "force", false, "actually reclaim; without it gc only reports the orphans")
	rootCmd.AddCommand(gcCmd)
}

func runGC(cmd *cobra.Command, args []string) error {
	globalDir, err := identity.GlobalConfigDir()
	if err != nil {
		return err
	}
	crewRoot := filepath.Join(globalDir, "crew")

	plan, err := gc.Scan(crewRoot)
	if err != nil {
		return fmt.Errorf("scanning for orphaned worktrees: %w", err)
	}
	if len(plan.Orphans) == 0 {
		fmt.Println("no orphaned worktrees found")
		return nil
	}

	for _, o := range plan.Orphans {
		fmt.Printf("%-12s %-20s %s\n", o.Entry.Name, o.Entry.Branch, o.Entry.Path)
	}
	fmt.Printf("\n%d orphaned worktree(s), %d bytes reclaimable\n", len(plan.Orphans), plan.TotalSizeBytes)

	if !gcForce {
		fmt.Println("(dry run — pass --force to reclaim)")
		return nil
	}

	opts := gc.Options{DeleteBranches: gcDeleteBranches}
	if gcDeleteBranches {
		// Best-effort: branch deletion only succeeds for orphans belonging to the project
		// `gc` is invoked from, since an orphan's original project root isn't recoverable
		// from its hash alone.
		if cwd, err := os.Getwd(); err == nil {
			opts.BranchDeleter = gitw.NewGit(cwd)
		}
	}

	result, err := gc.Reclaim(crewRoot, plan, opts)
	if err != nil {
		return fmt.Errorf("reclaiming: %w", err)
	}
	fmt.Printf("reclaimed %d worktree registration(s)\n", len(result.Removed))
	return nil
}
