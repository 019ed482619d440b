// Package promptgen synthesizes the lead prompt and per-teammate spawn prompts (§4.9). Every
// function here is a pure function of its inputs — no I/O — so the generator is trivially
// testable against fixed TeamState/config snapshots.
package promptgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/teamstate"
)

// TeammateInput is everything the generator needs about one teammate, gathered by the caller
// from the resolved config, the worktree map, and the TeamState.
type TeammateInput struct {
	Name         string
	Branch       string
	WorktreePath string
	Role         string
	Model        string
	Mode         string
	SubagentType string
	Focus        string
	AgentID      string // empty if never spawned
	LastActive   *time.Time
}

// Input bundles everything LeadPrompt needs.
type Input struct {
	TeamName        string
	ProfileName     string
	ProjectRoot     string
	Teammates       []TeammateInput
	StaleAfterHours int
}

// SpawnPrompt renders the per-teammate spawn prompt (§4.9, "the heart of crew isolation"):
// identity, branch, worktree path, a path-rules table constraining tool use to the worktree, and
// the resolved focus text with {WORKTREE_PATH}/{PROJECT_ROOT}/{TEAMMATE_NAME} placeholders
// substituted.
func SpawnPrompt(projectRoot string, tm TeammateInput) string {
	focus := substitutePlaceholders(tm.Focus, projectRoot, tm)

	var b strings.Builder
	fmt.Fprintf(&b, "# Teammate: %s\n\n", tm.Name)
	fmt.Fprintf(&b, "- **Branch:** `%s`\n", tm.Branch)
	fmt.Fprintf(&b, "- **Worktree:** `%s`\n\n", tm.WorktreePath)

	b.WriteString("## Path rules\n\n")
	b.WriteString("Every tool invocation in this session MUST stay rooted under your worktree. ")
	b.WriteString("Paths under the lead's project root are off limits.\n\n")
	b.WriteString("| Allowed | Forbidden |\n|---|---|\n")
	fmt.Fprintf(&b, "| `%s/**` | `%s/**` (unless it is this worktree) |\n\n", tm.WorktreePath, projectRoot)

	b.WriteString("## Focus\n\n")
	b.WriteString(focus)
	b.WriteString("\n\n")

	b.WriteString("## Workflow\n\n")
	b.WriteString("1. Claim the next available task assigned to you.\n")
	b.WriteString("2. Do the work, committing as you go inside your worktree.\n")
	b.WriteString("3. Mark the task complete.\n")
	b.WriteString("4. Poll for the next task; repeat.\n")

	return b.String()
}

func substitutePlaceholders(s, projectRoot string, tm TeammateInput) string {
	r := strings.NewReplacer(
		"{WORKTREE_PATH}", tm.WorktreePath,
		"{PROJECT_ROOT}", projectRoot,
		"{TEAMMATE_NAME}", tm.Name,
	)
	return r.Replace(s)
}

// LeadPrompt renders the top-level document handed to the host agent/user (§4.9): a resume shape
// when any teammate has a prior AgentID and is not stale, a fresh shape otherwise.
func LeadPrompt(in Input) string {
	anyResumable := false
	for _, tm := range in.Teammates {
		if tm.AgentID != "" && !isStale(tm.LastActive, in.StaleAfterHours) {
			anyResumable = true
			break
		}
	}
	if anyResumable {
		return resumePrompt(in)
	}
	return freshPrompt(in)
}

func isStale(lastActive *time.Time, staleAfterHours int) bool {
	if lastActive == nil {
		return true
	}
	return time.Since(*lastActive) >= time.Duration(staleAfterHours)*time.Hour
}

func hoursSince(t *time.Time) float64 {
	if t == nil {
		return -1
	}
	return time.Since(*t).Hours()
}

func resumePrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Resume team %q (profile %q)\n\n", in.TeamName, in.ProfileName)

	for _, tm := range in.Teammates {
		hrs := hoursSince(tm.LastActive)
		if hrs >= 0 {
			fmt.Fprintf(&b, "%.1f hours since %s was last active.\n\n", hrs, tm.Name)
		}

		b.WriteString("## " + tm.Name + "\n\n")
		fmt.Fprintf(&b, "- Branch: `%s`\n", tm.Branch)
		fmt.Fprintf(&b, "- Worktree: `%s`\n", tm.WorktreePath)

		if tm.AgentID != "" && !isStale(tm.LastActive, in.StaleAfterHours) {
			fmt.Fprintf(&b, "- Action: resume agent `%s`\n\n", tm.AgentID)
		} else {
			b.WriteString("- Action: STALE — spawn fresh\n\n")
			b.WriteString(SpawnPrompt(in.ProjectRoot, tm))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func freshPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Launch team %q (profile %q)\n\n", in.TeamName, in.ProfileName)

	b.WriteString("## Step 1 — create the team container\n\n")
	fmt.Fprintf(&b, "Create a team container named %q.\n\n", in.TeamName)

	b.WriteString("## Step 2 — create one task per teammate\n\n")
	for _, tm := range in.Teammates {
		fmt.Fprintf(&b, "- Task for %s (branch `%s`)\n", tm.Name, tm.Branch)
	}
	b.WriteString("\n")

	b.WriteString("## Step 3 — spawn teammates in parallel\n\n")
	b.WriteString("One invocation per teammate, each with the following parameter block:\n\n")
	for _, tm := range in.Teammates {
		b.WriteString("```\n")
		fmt.Fprintf(&b, "name: %s\n", tm.Name)
		fmt.Fprintf(&b, "team: %s\n", in.TeamName)
		fmt.Fprintf(&b, "subagent_type: %s\n", tm.SubagentType)
		fmt.Fprintf(&b, "mode: %s\n", tm.Mode)
		fmt.Fprintf(&b, "model: %s\n", tm.Model)
		b.WriteString("```\n\n")
		b.WriteString(SpawnPrompt(in.ProjectRoot, tm))
		b.WriteString("\n")
	}

	b.WriteString("## Step 4 — assign tasks by name\n\n")
	for _, tm := range in.Teammates {
		fmt.Fprintf(&b, "- Assign %s's task to %s.\n", tm.Name, tm.Name)
	}

	return b.String()
}

// FromResolved converts a crewconfig.Resolved profile plus a worktree-path map and prior
// TeamState into the TeammateInput slice LeadPrompt/SpawnPrompt need.
func FromResolved(resolved *crewconfig.Resolved, worktreePaths map[string]string, prior *teamstate.TeamState) []TeammateInput {
	out := make([]TeammateInput, 0, len(resolved.Teammates))
	for _, tm := range resolved.Teammates {
		in := TeammateInput{
			Name: tm.Name, Branch: tm.Branch, WorktreePath: worktreePaths[tm.Name],
			Role: tm.Role, Model: tm.Model, Mode: tm.Mode, SubagentType: tm.SubagentType, Focus: tm.Focus,
		}
		if prior != nil {
			if prev, ok := prior.Teammates[tm.Name]; ok {
				in.AgentID = prev.AgentID
				in.LastActive = prev.LastActive
			}
		}
		out = append(out, in)
	}
	return out
}
