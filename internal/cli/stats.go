package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/record"
	"github.com/capsulekit/capsule/internal/retrieval"
)

var statsTopK int

var statsCmd = &cobra.Command{
	Use:     "stats <view> [arg]",
	GroupID: GroupContext,
	Short:   "Read-only aggregations over the record store (views: summary, sessions, branch)",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTopK, "top", 10, "how many top titles to show for file/agent aggregations")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	storePath, err := identity.StorePath()
	if err != nil {
		fmt.Printf("record store unavailable: %v\n", err)
		return nil
	}
	store, err := record.Open(storePath)
	if err != nil {
		fmt.Printf("record store unavailable: %v\n", err)
		return nil
	}
	defer store.Close()

	view := args[0]
	switch view {
	case "summary":
		return statsSummary(store)
	case "sessions":
		return statsSessions(store)
	case "branch":
		if len(args) != 2 {
			fmt.Println("usage: capsule stats branch <name>")
			return nil
		}
		return statsBranch(store, args[1])
	default:
		fmt.Printf("unknown stats view %q (want summary, sessions, or branch)\n", view)
		return nil
	}
}

func statsSummary(store *record.Store) error {
	stats, err := retrieval.ComputeStats(store, statsTopK)
	if err != nil {
		fmt.Printf("computing stats: %v\n", err)
		return nil
	}
	fmt.Println("By type:")
	for t, n := range stats.CountByType {
		fmt.Printf("  %-12s %d\n", t, n)
	}
	fmt.Println("\nTop files:")
	for _, tc := range stats.TopFiles {
		fmt.Printf("  %-30s %d\n", tc.Title, tc.Count)
	}
	fmt.Println("\nTop sub-agents:")
	for _, tc := range stats.TopAgents {
		fmt.Printf("  %-30s %d\n", tc.Title, tc.Count)
	}
	return nil
}

func statsSessions(store *record.Store) error {
	all, err := store.All()
	if err != nil {
		fmt.Printf("loading records: %v\n", err)
		return nil
	}
	groups := retrieval.GroupBySession(all)
	for _, g := range groups {
		fmt.Printf("%-20s %d record(s)\n", g.SessionID, len(g.Records))
	}
	return nil
}

func statsBranch(store *record.Store, branch string) error {
	all, err := store.All()
	if err != nil {
		fmt.Printf("loading records: %v\n", err)
		return nil
	}
	matches := retrieval.FilterByBranch(all, branch)
	for _, r := range matches {
		fmt.Printf("%-50s %-10s %s\n", r.Namespace, r.Type, r.Title)
	}
	fmt.Printf("\n%d record(s) on branch %q\n", len(matches), branch)
	return nil
}
