// Package crewconfig loads, validates, hashes, and resolves the user-authored crew
// configuration (§3, §4.5).
package crewconfig

// Teammate is one declared roster entry.
type Teammate struct {
	Name         string            `json:"name"`
	Branch       string            `json:"branch"`
	Worktree     *bool             `json:"worktree,omitempty"` // defaults to true when nil
	Role         string            `json:"role,omitempty"`
	Model        string            `json:"model,omitempty"`
	Mode         string            `json:"mode,omitempty"`
	SubagentType string            `json:"subagent_type,omitempty"`
	Focus        string            `json:"focus,omitempty"`
	Env          map[string]string `json:"env,omitempty"`

	// Crew is attached during Resolve (not part of the user-authored shape); it names which
	// `crews:` group this teammate was flattened from, defaulting to "default".
	Crew string `json:"-"`
}

// WantsWorktree reports whether this teammate should get a provisioned worktree (defaults true).
func (t Teammate) WantsWorktree() bool {
	return t.Worktree == nil || *t.Worktree
}

// CrewGroup is one named sub-group of teammates under a team (§3's "crews: [{name, teammates[]}]").
type CrewGroup struct {
	Name      string     `json:"name"`
	Teammates []Teammate `json:"teammates"`
}

// Team is one team's roster, either flat (Teammates) or grouped (Crews).
type Team struct {
	Name      string      `json:"name"`
	Teammates []Teammate  `json:"teammates,omitempty"`
	Crews     []CrewGroup `json:"crews,omitempty"`
}

// Project carries project-level settings.
type Project struct {
	MainBranch string `json:"main_branch"`
}

// Config is the full user-authored document. Exactly one of Team or Profiles is set (§3).
type Config struct {
	// Single-team shape.
	Team *Team `json:"team,omitempty"`

	// Multi-profile shape.
	Profiles map[string]Team `json:"profiles,omitempty"`
	Default  string          `json:"default,omitempty"`

	Project        Project `json:"project"`
	StaleAfterHours *int   `json:"stale_after_hours,omitempty"`
}

// IsMultiProfile reports whether this config uses the multi-profile shape.
func (c *Config) IsMultiProfile() bool {
	return c.Profiles != nil
}

// ResolvedTeammate is a teammate after role-preset defaults and crew/filter resolution (§4.5,
// §4.6) have been applied.
type ResolvedTeammate struct {
	Teammate
}
