// Package teamstate persists per-profile TeamState (§3, §6) with legacy-path migration and
// resume/fresh decision logic.
package teamstate

import "time"

// TeammateStatus is the closed set of per-teammate lifecycle states.
type TeammateStatus string

const (
	StatusPending TeammateStatus = "pending"
	StatusActive  TeammateStatus = "active"
	StatusIdle    TeammateStatus = "idle"
	StatusStopped TeammateStatus = "stopped"
)

// TeamStatus is the closed set of whole-team lifecycle states.
type TeamStatus string

const (
	TeamActive  TeamStatus = "active"
	TeamStopped TeamStatus = "stopped"
)

// TeammateState is one teammate's runtime snapshot.
type TeammateState struct {
	Branch       string         `json:"branch"`
	WorktreePath string         `json:"worktree_path,omitempty"`
	Status       TeammateStatus `json:"status"`
	AgentID      string         `json:"agent_id,omitempty"`
	LastActive   *time.Time     `json:"last_active,omitempty"`
}

// TeamState is the per-profile runtime snapshot (§3).
type TeamState struct {
	TeamName     string                   `json:"team_name"`
	ProfileName  string                   `json:"profile_name"`
	ConfigHash   string                   `json:"config_hash"`
	Status       TeamStatus               `json:"status"`
	StartedAt    time.Time                `json:"started_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	Teammates    map[string]TeammateState `json:"teammates"`
	SpawnPrompts map[string]string        `json:"spawn_prompts,omitempty"`
}
