package crewconfig

import (
	"fmt"
	"sort"

	"github.com/capsulekit/capsule/internal/constants"
)

// Resolved is a profile selected from a Config, normalized to the multi-profile shape: a
// single-team config resolves as a one-profile config named "default" (Testable Properties,
// Boundary behaviors).
type Resolved struct {
	ProfileName string
	Team        Team
	Teammates   []ResolvedTeammate
}

// ResolveProfile selects a profile by explicit name, falling back to the config's `default`,
// then the first key in sorted (insertion-independent, deterministic) order. Returns an error if an
// explicit name is given and unknown.
func ResolveProfile(cfg *Config, explicit string) (*Resolved, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no crew config loaded")
	}

	if cfg.Team != nil {
		if explicit != "" && explicit != constants.DefaultProfileName {
			return nil, fmt.Errorf("unknown profile %q (config has a single \"team\", not \"profiles\")", explicit)
		}
		return buildResolved(constants.DefaultProfileName, *cfg.Team), nil
	}

	name := explicit
	if name == "" {
		name = cfg.Default
	}
	if name == "" {
		keys := make([]string, 0, len(cfg.Profiles))
		for k := range cfg.Profiles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			name = keys[0]
		}
	}
	team, ok := cfg.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	return buildResolved(name, team), nil
}

func buildResolved(name string, team Team) *Resolved {
	flat := flattenTeammates(team)
	resolved := make([]ResolvedTeammate, 0, len(flat))
	for _, tm := range flat {
		resolved = append(resolved, ResolvedTeammate{Teammate: ApplyRole(tm)})
	}
	return &Resolved{ProfileName: name, Team: team, Teammates: resolved}
}

// FilterByCrew narrows the resolved teammate list to a single crew group name. An empty name
// returns the list unchanged.
func (r *Resolved) FilterByCrew(crew string) []ResolvedTeammate {
	if crew == "" {
		return r.Teammates
	}
	var out []ResolvedTeammate
	for _, tm := range r.Teammates {
		if tm.Crew == crew {
			out = append(out, tm)
		}
	}
	return out
}

// StaleAfterHoursOrDefault returns the effective staleness threshold: per-profile override not modeled in
// the user-authored schema (top-level only per §3), so this is the config's top-level value or
// the default.
func (c *Config) StaleAfterHoursOrDefault() int {
	if c.StaleAfterHours != nil {
		return *c.StaleAfterHours
	}
	return constants.DefaultStaleAfterHours
}
