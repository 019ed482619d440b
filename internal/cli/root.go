// Package cli provides the capsule CLI's command tree, mirroring the teacher's
// internal/cmd package: one rootCmd, command groups, and one file per subcommand.
package cli

import (
	"github.com/spf13/cobra"
)

// Command group IDs, following the teacher's GroupWork/GroupWorkspace/GroupConfig/GroupDiag
// pattern (SPEC_FULL.md §10).
const (
	GroupContext     = "context"
	GroupCrew        = "crew"
	GroupMaintenance = "maintenance"
)

var rootCmd = &cobra.Command{
	Use:   "capsule",
	Short: "Capsule — context capture and crew orchestration for host-agent coding sessions",
	Long: `Capsule captures tool-use context into a namespaced record store and orchestrates
multi-teammate crews across git worktrees: provisioning, lifecycle, merge preview, health, and GC.`,
}

func init() {
	cobra.EnablePrefixMatching = true

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupContext, Title: "Context:"},
		&cobra.Group{ID: GroupCrew, Title: "Crew Lifecycle:"},
		&cobra.Group{ID: GroupMaintenance, Title: "Maintenance:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupMaintenance)
	rootCmd.SetCompletionCommandGroupID(GroupMaintenance)
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
