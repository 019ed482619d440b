package doctor

import (
	"fmt"
	"os/exec"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/health"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/registry"
)

// EnvironmentChecks builds the SPEC_FULL.md §12 environment checks: record-store reachable, git
// binary present, crew config present and valid, worktree registry readable.
func EnvironmentChecks(projectRoot string) []Check {
	return []Check{
		{Category: CategoryEnvironment, Name: "record store reachable", Run: checkRecordStore},
		{Category: CategoryEnvironment, Name: "git binary present", Run: checkGitBinary},
		{Category: CategoryCrew, Name: "crew config valid", Run: func() Result { return checkCrewConfig(projectRoot) }},
		{Category: CategoryCrew, Name: "worktree registry readable", Run: func() Result { return checkRegistry(projectRoot) }},
	}
}

func checkRecordStore() Result {
	path, err := identity.StorePath()
	if err != nil {
		return Result{Status: StatusFail, Details: []string{err.Error()}}
	}
	return Result{Status: StatusOK, Details: []string{path}}
}

func checkGitBinary() Result {
	path, err := exec.LookPath("git")
	if err != nil {
		return Result{Status: StatusFail, Details: []string{"git not found on PATH"}}
	}
	return Result{Status: StatusOK, Details: []string{path}}
}

func checkCrewConfig(projectRoot string) Result {
	if !crewconfig.Exists(projectRoot) {
		return Result{Status: StatusWarn, Details: []string{"no .crew-config.json at project root"}}
	}
	cfg, err := crewconfig.Load(projectRoot)
	if err != nil {
		return Result{Status: StatusFail, Details: []string{err.Error()}}
	}
	if errs := crewconfig.Validate(cfg); len(errs) > 0 {
		return Result{Status: StatusFail, Details: errs}
	}
	return Result{Status: StatusOK}
}

func checkRegistry(projectRoot string) Result {
	projectHash, err := identity.ProjectHash(projectRoot)
	if err != nil {
		return Result{Status: StatusFail, Details: []string{err.Error()}}
	}
	stateDir, err := identity.CrewStateDir(projectHash)
	if err != nil {
		return Result{Status: StatusFail, Details: []string{err.Error()}}
	}
	reg, err := registry.Load(registry.Path(stateDir))
	if err != nil {
		return Result{Status: StatusFail, Details: []string{err.Error()}}
	}
	return Result{Status: StatusOK, Details: []string{fmt.Sprintf("%d worktree(s) registered", len(reg.Worktrees))}}
}

// TeammateChecks wraps each health.Report as a doctor.Check so `doctor` renders teammate
// liveness alongside the environment checks in one table (§4.11).
func TeammateChecks(reports []health.Report) []Check {
	checks := make([]Check, 0, len(reports))
	for _, r := range reports {
		r := r
		checks = append(checks, Check{
			Category: CategoryTeammate,
			Name:     r.Teammate,
			Run:      func() Result { return teammateResult(r) },
		})
	}
	return checks
}

func teammateResult(r health.Report) Result {
	switch r.Status {
	case health.StatusActive:
		return Result{Status: StatusOK, Details: []string{fmt.Sprintf("%d commit(s) recently", r.RecentCommits)}}
	case health.StatusIdle:
		return Result{Status: StatusWarn, Details: []string{"idle"}}
	case health.StatusCrashed:
		return Result{Status: StatusFail, Details: []string{"worktree missing"}}
	case health.StatusUnresponsive:
		return Result{Status: StatusFail, Details: []string{"no activity within the unresponsive threshold"}}
	default:
		return Result{Status: StatusWarn, Details: []string{"unknown"}}
	}
}
