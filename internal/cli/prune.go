package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/record"
)

var pruneDryRun bool

var pruneCmd = &cobra.Command{
	Use:     "prune [days]",
	GroupID: GroupContext,
	Short:   "Delete records not updated within the given number of days (default 30)",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runPrune,
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "report how many records would be deleted without deleting them")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	days := constants.DefaultRetentionDays
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Printf("invalid day count %q; using default of %d\n", args[0], days)
		} else {
			days = n
		}
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

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

	if pruneDryRun {
		n, err := store.CountOlderThan(cutoff)
		if err != nil {
			fmt.Printf("counting old records: %v\n", err)
			return nil
		}
		fmt.Printf("%d record(s) older than %d day(s) would be deleted\n", n, days)
		return nil
	}

	n, err := store.Prune(cutoff)
	if err != nil {
		fmt.Printf("pruning: %v\n", err)
		return nil
	}
	fmt.Printf("deleted %d record(s) older than %d day(s)\n", n, days)
	return nil
}
