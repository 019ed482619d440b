package cli

import (
	"testing"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/teamstate"
)

func saveMinimalTeamState(t *testing.T, pc *projectContext, configHash string) {
	t.Helper()
	ts := &teamstate.TeamState{
		TeamName: "crew", ProfileName: constants.DefaultProfileName, ConfigHash: configHash,
		Status: teamstate.TeamActive, Teammates: map[string]teamstate.TeammateState{},
	}
	if err := teamstate.Save(pc.StateDir, ts); err != nil {
		t.Fatal(err)
	}
}

func TestTeammateBranchesErrorsWithoutTeamState(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAPSULE_CONFIG_DIR", dir)

	cfg := &crewconfig.Config{
		Team: &crewconfig.Team{Name: "crew", Teammates: []crewconfig.Teammate{{Name: "alice", Branch: "alice-work"}}},
		Project: crewconfig.Project{MainBranch: "main"},
	}
	pc := &projectContext{Cwd: dir, Config: cfg, ProjectHash: "deadbeef", StateDir: dir}

	_, _, _, err := teammateBranches(pc, "")
	if err == nil {
		t.Fatal("expected an error when no team state has ever been saved")
	}
}

func TestTeammateBranchesReturnsBranchesAfterStart(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CAPSULE_CONFIG_DIR", dir)

	cfg := &crewconfig.Config{
		Team: &crewconfig.Team{Name: "crew", Teammates: []crewconfig.Teammate{
			{Name: "alice", Branch: "alice-work"},
			{Name: "bob", Branch: "bob-work"},
		}},
		Project: crewconfig.Project{MainBranch: "main"},
	}
	hash, err := crewconfig.Hash(cfg)
	if err != nil {
		t.Fatal(err)
	}
	pc := &projectContext{Cwd: dir, Config: cfg, ProjectHash: "deadbeef", StateDir: dir}

	saveMinimalTeamState(t, pc, hash)

	_, branches, _, err := teammateBranches(pc, "")
	if err != nil {
		t.Fatalf("teammateBranches: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(branches))
	}
}
