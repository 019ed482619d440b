package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/promptgen"
	"github.com/capsulekit/capsule/internal/teamstate"
	"github.com/capsulekit/capsule/internal/util"
	"github.com/capsulekit/capsule/internal/worktree"
)

var startFresh bool

var startCmd = &cobra.Command{
	Use:     "start [profile]",
	GroupID: GroupCrew,
	Short:   "Provision worktrees and print the lead prompt for a crew profile",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runStart,
}

func init() {
	startCmd.Flags().BoolVar(&startFresh, "fresh", false, "force a fresh launch, ignoring any resumable prior state")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	configHash, err := crewconfig.Hash(pc.Config)
	if err != nil {
		return fmt.Errorf("hashing config: %w", err)
	}

	previous, err := teamstate.Load(pc.StateDir, resolved.ProfileName)
	if err != nil {
		return fmt.Errorf("loading prior team state: %w", err)
	}

	staleAfter := pc.Config.StaleAfterHoursOrDefault()
	decision := teamstate.DecideResume(previous, configHash, startFresh, staleAfter)
	fmt.Printf("Decision: %s (%s)\n", resumeLabel(decision.Resume), decision.Reason)

	mgr := worktree.NewManager(pc.Cwd, pc.Config.Project.MainBranch)
	worktreePaths := map[string]string{}
	for _, tm := range resolved.Teammates {
		if !tm.WantsWorktree() {
			continue
		}
		result, err := mgr.Provision(worktree.ProvisionOptions{
			TeammateName: tm.Name, Branch: tm.Branch,
			ProfileName: resolved.ProfileName, TeamName: resolved.Team.Name, ProjectHash: pc.ProjectHash,
		})
		if err != nil {
			return fmt.Errorf("provisioning worktree for %s: %w", tm.Name, err)
		}
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s: %s\n", tm.Name, w)
		}
		worktreePaths[tm.Name] = result.Path
	}

	next := &teamstate.TeamState{
		TeamName: resolved.Team.Name, ProfileName: resolved.ProfileName, ConfigHash: configHash,
		Status: teamstate.TeamActive, Teammates: map[string]teamstate.TeammateState{},
	}
	if decision.Resume && previous != nil {
		next.StartedAt = previous.StartedAt
	} else {
		next.StartedAt = time.Now().UTC()
	}
	for _, tm := range resolved.Teammates {
		next.Teammates[tm.Name] = teamstate.TeammateState{
			Branch: tm.Branch, WorktreePath: worktreePaths[tm.Name], Status: teamstate.StatusPending,
		}
	}
	teamstate.CarryForward(previous, decision.Resume, next)

	promptInput := promptgen.Input{
		TeamName: resolved.Team.Name, ProfileName: resolved.ProfileName, ProjectRoot: pc.Cwd,
		Teammates: promptgen.FromResolved(resolved, worktreePaths, previous), StaleAfterHours: staleAfter,
	}
	leadPrompt := promptgen.LeadPrompt(promptInput)

	next.SpawnPrompts = map[string]string{}
	for _, tm := range promptInput.Teammates {
		next.SpawnPrompts[tm.Name] = promptgen.SpawnPrompt(pc.Cwd, tm)
	}

	leadPromptPath := filepath.Join(pc.StateDir, resolved.ProfileName, "lead-prompt.md")
	if err := util.AtomicWriteFile(leadPromptPath, []byte(leadPrompt), 0o644); err != nil {
		return fmt.Errorf("saving lead prompt: %w", err)
	}

	if err := teamstate.Save(pc.StateDir, next); err != nil {
		return fmt.Errorf("saving team state: %w", err)
	}

	fmt.Println()
	fmt.Print(leadPrompt)
	return nil
}

func resumeLabel(resume bool) string {
	if resume {
		return "resume"
	}
	return "fresh"
}
