package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/gitw"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: GroupCrew,
	Short:   "Write a crew config template into the project root",
	RunE:    runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	if crewconfig.Exists(cwd) {
		return fmt.Errorf("%s already exists", crewconfig.Path(cwd))
	}

	g := gitw.NewGit(cwd)
	mainBranch := g.DefaultBranch()

	cfg := &crewconfig.Config{
		Team: &crewconfig.Team{
			Name: "crew",
			Teammates: []crewconfig.Teammate{
				{Name: "alice", Branch: "alice-work", Role: "developer"},
				{Name: "bob", Branch: "bob-work", Role: "reviewer"},
			},
		},
		Project: crewconfig.Project{MainBranch: mainBranch},
	}

	if err := crewconfig.Write(cwd, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote %s (main branch: %s)\n", crewconfig.Path(cwd), mainBranch)
	fmt.Println("Edit the teammate roster, then run `capsule start`.")
	return nil
}
