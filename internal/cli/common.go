package cli

import (
	"fmt"
	"os"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/identity"
)

// projectContext bundles the handful of things almost every crew subcommand needs: the working
// directory, its loaded config, its project hash, and its crew state directory.
type projectContext struct {
	Cwd         string
	Config      *crewconfig.Config
	ProjectHash string
	StateDir    string
}

// loadProjectContext resolves everything a crew-lifecycle command needs, requiring a present and
// valid config. Use loadOptionalConfig when a missing config should not be an error (status/doctor
// read-only paths).
func loadProjectContext() (*projectContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := crewconfig.Load(cwd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no crew config found; run `capsule init` first")
	}
	if errs := crewconfig.Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid crew config:\n  %s", joinLines(errs))
	}
	return buildProjectContext(cwd, cfg)
}

// loadOptionalProjectContext is the read-only-path variant: a missing config yields a
// projectContext with a nil Config rather than an error.
func loadOptionalProjectContext() (*projectContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := crewconfig.Load(cwd)
	if err != nil {
		return nil, err
	}
	return buildProjectContext(cwd, cfg)
}

func buildProjectContext(cwd string, cfg *crewconfig.Config) (*projectContext, error) {
	hash, err := identity.ProjectHash(cwd)
	if err != nil {
		return nil, err
	}
	stateDir, err := identity.CrewStateDir(hash)
	if err != nil {
		return nil, err
	}
	return &projectContext{Cwd: cwd, Config: cfg, ProjectHash: hash, StateDir: stateDir}, nil
}

// profileNames lists the profiles a config declares: the single "default" profile for a
// single-team config, or every key of a multi-profile config.
func profileNames(cfg *crewconfig.Config) []string {
	if cfg == nil {
		return nil
	}
	if cfg.IsMultiProfile() {
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		return names
	}
	return []string{constants.DefaultProfileName}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n  "
		}
		out += l
	}
	return out
}
