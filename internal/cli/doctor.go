package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/doctor"
	"github.com/capsulekit/capsule/internal/health"
	"github.com/capsulekit/capsule/internal/teamstate"
	"github.com/capsulekit/capsule/internal/ui"
)

var (
	doctorNotify   bool
	doctorSnapshot string
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupMaintenance,
	Short:   "Run environment and teammate-health checks",
	RunE:    runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorNotify, "notify", false, "raise a desktop notification for any crashed teammate")
	doctorCmd.Flags().StringVar(&doctorSnapshot, "prometheus-textfile", "", "write a Prometheus textfile-collector snapshot to this path")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	pc, err := loadOptionalProjectContext()
	if err != nil {
		return err
	}

	checks := doctor.EnvironmentChecks(pc.Cwd)

	var allReports []health.Report
	if pc.Config != nil {
		since := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
		for _, profile := range profileNames(pc.Config) {
			ts, err := teamstate.Load(pc.StateDir, profile)
			if err != nil || ts == nil {
				continue
			}
			reports := health.CheckAll(ts, since)
			allReports = append(allReports, reports...)
			checks = append(checks, doctor.TeammateChecks(reports)...)

			if doctorNotify {
				if err := health.NotifyCrashed(ts.TeamName, reports); err != nil {
					fmt.Printf("notify: %v\n", err)
				}
			}
		}
	}

	if doctorSnapshot != "" {
		if err := health.WriteTextfileSnapshot(doctorSnapshot, allReports); err != nil {
			return fmt.Errorf("writing prometheus textfile snapshot: %w", err)
		}
	}

	report := doctor.RunAll(checks)
	fmt.Print(ui.RenderDoctorReport(report))
	return nil
}
