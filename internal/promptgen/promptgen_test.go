package promptgen

import (
	"strings"
	"testing"
	"time"
)

func TestSpawnPromptSubstitutesPlaceholders(t *testing.T) {
	tm := TeammateInput{
		Name: "alice", Branch: "feat/alice", WorktreePath: "/proj/.worktrees/alice",
		Focus: "Work inside {WORKTREE_PATH}, never touch {PROJECT_ROOT}. You are {TEAMMATE_NAME}.",
	}
	out := SpawnPrompt("/proj", tm)

	if !strings.Contains(out, "Work inside /proj/.worktrees/alice") {
		t.Fatalf("expected worktree path substituted: %s", out)
	}
	if !strings.Contains(out, "never touch /proj") {
		t.Fatalf("expected project root substituted: %s", out)
	}
	if !strings.Contains(out, "You are alice") {
		t.Fatalf("expected teammate name substituted: %s", out)
	}
	if !strings.Contains(out, "| Allowed | Forbidden |") {
		t.Fatalf("expected path-rules table: %s", out)
	}
}

func TestLeadPromptChoosesFreshWhenNoPriorAgents(t *testing.T) {
	in := Input{
		TeamName: "dev", ProfileName: "default", ProjectRoot: "/proj", StaleAfterHours: 4,
		Teammates: []TeammateInput{{Name: "alice", Branch: "feat/a", WorktreePath: "/proj/.worktrees/alice"}},
	}
	out := LeadPrompt(in)
	if !strings.HasPrefix(out, "# Launch team") {
		t.Fatalf("expected fresh-launch prompt, got: %s", out)
	}
}

func TestLeadPromptChoosesResumeWhenRecentlyActive(t *testing.T) {
	recent := time.Now().Add(-1 * time.Hour)
	in := Input{
		TeamName: "dev", ProfileName: "default", ProjectRoot: "/proj", StaleAfterHours: 4,
		Teammates: []TeammateInput{
			{Name: "alice", Branch: "feat/a", WorktreePath: "/proj/.worktrees/alice", AgentID: "agent-1", LastActive: &recent},
		},
	}
	out := LeadPrompt(in)
	if !strings.HasPrefix(out, "# Resume team") {
		t.Fatalf("expected resume prompt, got: %s", out)
	}
	if !strings.Contains(out, "resume agent `agent-1`") {
		t.Fatalf("expected resume action naming the agent id: %s", out)
	}
}

func TestLeadPromptFallsBackToSpawnForStaleTeammate(t *testing.T) {
	old := time.Now().Add(-10 * time.Hour)
	in := Input{
		TeamName: "dev", ProfileName: "default", ProjectRoot: "/proj", StaleAfterHours: 4,
		Teammates: []TeammateInput{
			{Name: "alice", Branch: "feat/a", WorktreePath: "/proj/.worktrees/alice", AgentID: "agent-1", LastActive: &old},
		},
	}
	out := LeadPrompt(in)
	if !strings.HasPrefix(out, "# Launch team") {
		t.Fatalf("expected fresh prompt since only teammate is stale, got: %s", out)
	}
}
