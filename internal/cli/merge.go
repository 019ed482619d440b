package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/mergepilot"
	"github.com/capsulekit/capsule/internal/teamstate"
)

var mergeTestCmd string

var mergePreviewCmd = &cobra.Command{
	Use:     "merge-preview [profile]",
	GroupID: GroupCrew,
	Short:   "Dry-run merge-conflict preview across every teammate branch",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runMergePreview,
}

var mergeCmd = &cobra.Command{
	Use:     "merge [profile]",
	GroupID: GroupCrew,
	Short:   "Merge every clean teammate branch into main, in order",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeTestCmd, "test", "", "shell command to run after each merge; a non-zero exit rolls that branch back")
	mergeCmd.Flags().Lookup("test").NoOptDefVal = "go test ./..."
	rootCmd.AddCommand(mergePreviewCmd)
	rootCmd.AddCommand(mergeCmd)
}

func teammateBranches(pc *projectContext, explicit string) (*crewconfig.Resolved, []mergepilot.TeammateBranch, *teamstate.TeamState, error) {
	resolved, err := crewconfig.ResolveProfile(pc.Config, explicit)
	if err != nil {
		return nil, nil, nil, err
	}
	ts, err := teamstate.Load(pc.StateDir, resolved.ProfileName)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading team state: %w", err)
	}
	if ts == nil {
		return nil, nil, nil, fmt.Errorf("no team state found for profile %q; run `capsule start` first", resolved.ProfileName)
	}
	var branches []mergepilot.TeammateBranch
	for _, tm := range resolved.Teammates {
		branches = append(branches, mergepilot.TeammateBranch{Teammate: tm.Name, Branch: tm.Branch})
	}
	return resolved, branches, ts, nil
}

func runMergePreview(cmd *cobra.Command, args []string) error {
	pc, err := loadProjectContext()
	if err != nil {
		return err
	}
	explicit := ""
	if len(args) == 1 {
		explicit = args[0]
	}
	_, branches, _, err := teammateBranches(pc, explicit)
	if err != nil {
		return err
	}

	g := gitw.NewGit(pc.Cwd)
	result, err := mergepilot.Preview(g, pc.Config.Project.MainBranch, branches)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	for _, bp := range result.Branches {
		status := "clean"
		if bp.Conflict {
			status = "CONFLICT"
		}
		fmt.Printf("%-12s %-20s %-10s %d file(s) changed\n", bp.Teammate, bp.Branch, status, len(bp.ChangedFiles))
	}
	if len(result.Overlaps) > 0 {
		fmt.Println("\nOverlapping files:")
		for _, o := range result.Overlaps {
			fmt.Printf("  %s: %s, %s\n", o.File, o.Teammates[0], o.Teammates[1])
		}
	}
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	pc, err := loadProjectContext()
	if err != nil {
		return err
	}
	explicit := ""
	if len(args) == 1 {
		explicit = args[0]
	}
	_, branches, _, err := teammateBranches(pc, explicit)
	if err != nil {
		return err
	}

	g := gitw.NewGit(pc.Cwd)
	mainBranch := pc.Config.Project.MainBranch
	preview, err := mergepilot.Preview(g, mainBranch, branches)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if err := g.Checkout(mainBranch); err != nil {
		return fmt.Errorf("checking out %s: %w", mainBranch, err)
	}

	var runTests mergepilot.TestRunner
	if cmd.Flags().Changed("test") {
		runTests = func() error { return runShellTestCmd(pc.Cwd, mergeTestCmd) }
	}

	result, err := mergepilot.Execute(g, preview, runTests)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	fmt.Printf("Backup tag: %s\n", result.BackupTag)
	fmt.Printf("Merged:  %s\n", strings.Join(result.Success, ", "))
	fmt.Printf("Failed:  %s\n", strings.Join(result.Failed, ", "))
	fmt.Printf("Skipped: %s\n", strings.Join(result.Skipped, ", "))
	return nil
}

func runShellTestCmd(dir, shellCmd string) error {
	c := exec.Command("sh", "-c", shellCmd)
	c.Dir = dir
	out, err := c.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w:\n%s", err, out)
	}
	return nil
}
