package crewconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/util"
)

// Path returns the crew config path under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, constants.CrewConfigFileName)
}

// Load reads and parses the config at projectRoot, returning (nil, nil) if absent.
func Load(projectRoot string) (*Config, error) {
	path := Path(projectRoot)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Exists reports whether a config file is already present at projectRoot.
func Exists(projectRoot string) bool {
	_, err := os.Stat(Path(projectRoot))
	return err == nil
}

// Write serializes cfg to the project root config path. Used by `init`.
func Write(projectRoot string, cfg *Config) error {
	return util.AtomicWriteJSON(Path(projectRoot), cfg)
}

// Hash computes the config_hash of §4.5: sha256 of the canonical JSON of the full config
// (not the resolved subset), 12 hex chars.
func Hash(cfg *Config) (string, error) {
	return util.HashConfig(cfg)
}

// Validate returns a list of human-readable errors; an empty list means the config is valid
// (§4.5).
func Validate(cfg *Config) []string {
	var errs []string

	hasTeam := cfg.Team != nil
	hasProfiles := cfg.Profiles != nil
	switch {
	case hasTeam && hasProfiles:
		errs = append(errs, "config must set exactly one of \"team\" or \"profiles\", not both")
	case !hasTeam && !hasProfiles:
		errs = append(errs, "config must set exactly one of \"team\" or \"profiles\"")
	case hasTeam:
		errs = append(errs, validateTeam("team", *cfg.Team)...)
	case hasProfiles:
		if len(cfg.Profiles) == 0 {
			errs = append(errs, "\"profiles\" must be non-empty")
		}
		if cfg.Default != "" {
			if _, ok := cfg.Profiles[cfg.Default]; !ok {
				errs = append(errs, fmt.Sprintf("\"default\" references unknown profile %q", cfg.Default))
			}
		}
		for name, team := range cfg.Profiles {
			errs = append(errs, validateTeam(fmt.Sprintf("profiles.%s", name), team)...)
		}
	}

	return errs
}

func validateTeam(label string, team Team) []string {
	var errs []string
	if team.Name == "" {
		errs = append(errs, fmt.Sprintf("%s: name must be a non-empty string", label))
	}

	teammates := flattenTeammates(team)
	if len(teammates) == 0 {
		errs = append(errs, fmt.Sprintf("%s: must declare at least one teammate", label))
	}

	seen := map[string]bool{}
	for _, tm := range teammates {
		if tm.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: every teammate must have a non-empty name", label))
			continue
		}
		if seen[tm.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate teammate name %q", label, tm.Name))
		}
		seen[tm.Name] = true
		if tm.Branch == "" {
			errs = append(errs, fmt.Sprintf("%s: teammate %q must have a non-empty branch", label, tm.Name))
		}
		if tm.Role != "" && !IsKnownRole(tm.Role) {
			errs = append(errs, fmt.Sprintf("%s: teammate %q has unknown role %q", label, tm.Name, tm.Role))
		}
	}
	return errs
}

// flattenTeammates merges a team's flat Teammates list with any Crews-grouped teammates,
// attaching each one's originating crew name (defaulting to "default").
func flattenTeammates(team Team) []Teammate {
	var out []Teammate
	for _, tm := range team.Teammates {
		tm.Crew = "default"
		out = append(out, tm)
	}
	for _, group := range team.Crews {
		name := group.Name
		if name == "" {
			name = "default"
		}
		for _, tm := range group.Teammates {
			tm.Crew = name
			out = append(out, tm)
		}
	}
	return out
}
