package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/health"
	"github.com/capsulekit/capsule/internal/teamstate"
	"github.com/capsulekit/capsule/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: GroupCrew,
	Short:   "Show every teammate's liveness across all declared profiles",
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	pc, err := loadOptionalProjectContext()
	if err != nil {
		return err
	}
	if pc.Config == nil {
		fmt.Println("no crew config found; run `capsule init` first")
		return nil
	}

	since := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	var rows []ui.StatusRow
	for _, profile := range profileNames(pc.Config) {
		ts, err := teamstate.Load(pc.StateDir, profile)
		if err != nil {
			fmt.Printf("warning: loading team state for profile %q: %v\n", profile, err)
			continue
		}
		if ts == nil {
			continue
		}
		reports := health.CheckAll(ts, since)
		for _, r := range reports {
			tm := ts.Teammates[r.Teammate]
			lastActive := "never"
			if r.LastActive != nil {
				lastActive = r.LastActive.Format("2006-01-02 15:04")
			}
			rows = append(rows, ui.StatusRow{
				Profile: profile, Teammate: r.Teammate, Status: string(r.Status),
				LastActive: lastActive, Branch: tm.Branch, Worktree: tm.WorktreePath,
				Stale: r.Status == health.StatusIdle || r.Status == health.StatusUnresponsive,
			})
		}
	}

	if len(rows) == 0 {
		fmt.Println("no active or previously started crews found")
		return nil
	}

	fmt.Print(ui.RenderStatusTable(rows))
	return nil
}
