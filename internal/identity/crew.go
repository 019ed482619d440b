package identity

import (
	"os"
	"path/filepath"
	"time"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/registry"
	"github.com/capsulekit/capsule/internal/util"
)

// CrewIdentity is local to a worktree (§3): written at provisioning time and read back by every
// hook and CLI command running inside that worktree.
type CrewIdentity struct {
	TeammateName string    `json:"teammate_name"`
	ProjectRoot  string    `json:"project_root"`
	Branch       string    `json:"branch"`
	TeamName     string    `json:"team_name"`
	ProfileName  string    `json:"profile_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// WriteIdentityFile writes the identity file at the worktree root. It is always local, never
// symlinked (§4.7 step 5).
func WriteIdentityFile(worktreePath string, id *CrewIdentity) error {
	return util.AtomicWriteJSON(filepath.Join(worktreePath, constants.IdentityFileName), id)
}

// ReadIdentityFile reads the identity file at the given directory, returning (nil, nil) if
// absent.
func ReadIdentityFile(dir string) (*CrewIdentity, error) {
	var id CrewIdentity
	err := util.ReadJSON(filepath.Join(dir, constants.IdentityFileName), &id)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ResolveHint carries the inputs the crew identity resolver needs beyond the environment: the
// project hash (to key the worktree registry) and an optional file-path hint used to disambiguate
// when a teammate is executing against an absolute path inside its worktree (§4.1).
type ResolveHint struct {
	Cwd         string
	ProjectHash string
	FilePath    string // optional
}

// ResolveCrewIdentity tries, in order, the strategies of §4.1 and returns the first hit:
//  1. An identity file at CWD or `<CWD>/.<stateDir>/crew-identity.json`.
//  2. The CAPSULE_WORKTREE_PATH environment hint, looking up the identity file under it.
//  3. A worktree-registry lookup keyed by the project hash, disambiguated by FilePath if given,
//     or used directly when exactly one worktree is registered.
//
// Returns (nil, nil) when no strategy resolves (ambiguous or absent — never an error on its own).
func ResolveCrewIdentity(hint ResolveHint) (*CrewIdentity, error) {
	// Strategy 1: identity file at CWD or its state directory.
	if id, err := ReadIdentityFile(hint.Cwd); err != nil {
		return nil, err
	} else if id != nil {
		return id, nil
	}
	if id, err := ReadIdentityFile(filepath.Join(hint.Cwd, constants.StateDirName)); err != nil {
		return nil, err
	} else if id != nil {
		return id, nil
	}

	// Strategy 2: environment hint pointing at a worktree path.
	if envPath := os.Getenv(constants.WorktreeEnvHint); envPath != "" {
		if id, err := ReadIdentityFile(envPath); err != nil {
			return nil, err
		} else if id != nil {
			return id, nil
		}
	}

	// Strategy 3: worktree registry lookup keyed by project hash.
	if hint.ProjectHash == "" {
		return nil, nil
	}
	stateDir, err := CrewStateDir(hint.ProjectHash)
	if err != nil {
		return nil, err
	}
	regPath := registry.Path(stateDir)
	reg, err := registry.Load(regPath)
	if err != nil {
		return nil, err
	}
	if len(reg.Worktrees) == 0 {
		return nil, nil
	}

	var chosenPath string
	if hint.FilePath != "" {
		entry, ok := reg.FindByPathPrefix(hint.FilePath)
		if !ok {
			return nil, nil // ambiguous / no match
		}
		chosenPath = entry.Path
	} else if len(reg.Worktrees) == 1 {
		chosenPath = reg.Worktrees[0].Path
	} else {
		return nil, nil // ambiguous: more than one worktree, no hint to pick among them
	}

	return ReadIdentityFile(chosenPath)
}
