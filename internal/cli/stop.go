package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/teamstate"
	"github.com/capsulekit/capsule/internal/worktree"
)

var stopKeepWorktrees bool

var stopCmd = &cobra.Command{
	Use:     "stop [profile]",
	GroupID: GroupCrew,
	Short:   "Mark a crew profile stopped and tear down its worktrees",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runStop,
}

func init() {
	stopCmd.Flags().BoolVar(&stopKeepWorktrees, "keep-worktrees", false, "leave worktrees on disk, only mark the team state stopped")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	pc, err := loadProjectContext()
	if err != nil {
		return err
	}

	explicit := ""
	if len(args) == 1 {
		explicit = args[0]
	}
	resolved, err := crewconfig.ResolveProfile(pc.Config, explicit)
	if err != nil {
		return err
	}

	ts, err := teamstate.Load(pc.StateDir, resolved.ProfileName)
	if err != nil {
		return fmt.Errorf("loading team state: %w", err)
	}
	if ts == nil {
		return fmt.Errorf("no team state found for profile %q; nothing to stop", resolved.ProfileName)
	}

	if !stopKeepWorktrees {
		mgr := worktree.NewManager(pc.Cwd, pc.Config.Project.MainBranch)
		for name, tm := range ts.Teammates {
			if tm.WorktreePath == "" {
				continue
			}
			if err := mgr.Remove(tm.WorktreePath); err != nil {
				fmt.Printf("warning: removing worktree for %s: %v\n", name, err)
				continue
			}
			tm.Status = teamstate.StatusStopped
			ts.Teammates[name] = tm
		}
	} else {
		for name, tm := range ts.Teammates {
			tm.Status = teamstate.StatusStopped
			ts.Teammates[name] = tm
		}
	}

	ts.Status = teamstate.TeamStopped
	if err := teamstate.Save(pc.StateDir, ts); err != nil {
		return fmt.Errorf("saving team state: %w", err)
	}

	g := gitw.NewGit(pc.Cwd)
	_ = g.WorktreePrune()

	fmt.Printf("Stopped team %q (profile %q).\n", ts.TeamName, resolved.ProfileName)
	return nil
}
