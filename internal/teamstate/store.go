package teamstate

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/util"
)

// Path returns the per-profile team-state path under a project's crew state directory.
func Path(projectStateDir, profileName string) string {
	return filepath.Join(projectStateDir, profileName, constants.TeamStateFileName)
}

// legacyPath returns the pre-migration flat location (no profile subdirectory).
func legacyPath(projectStateDir string) string {
	return filepath.Join(projectStateDir, constants.TeamStateFileName)
}

// Load reads the TeamState for profileName, migrating a legacy flat-path file into
// `default/team-state.json` on first read if the profile is "default" and no profiled file
// exists yet (§3, §6). Returns (nil, nil) if no state exists at all.
func Load(projectStateDir, profileName string) (*TeamState, error) {
	path := Path(projectStateDir, profileName)

	if _, err := os.Stat(path); os.IsNotExist(err) && profileName == constants.DefaultProfileName {
		legacy := legacyPath(projectStateDir)
		if _, lerr := os.Stat(legacy); lerr == nil {
			if err := migrateLegacy(legacy, path); err != nil {
				return nil, err
			}
		}
	}

	var ts TeamState
	err := util.ReadJSON(path, &ts)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func migrateLegacy(legacy, dest string) error {
	var ts TeamState
	if err := util.ReadJSON(legacy, &ts); err != nil {
		return err
	}
	if err := util.AtomicWriteJSON(dest, &ts); err != nil {
		return err
	}
	return os.Remove(legacy)
}

// Save writes ts atomically, guarded by a file lock so concurrent start/stop invocations on the
// same profile never interleave their read-modify-write (§5).
func Save(projectStateDir string, ts *TeamState) error {
	path := Path(projectStateDir, ts.ProfileName)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	ts.UpdatedAt = time.Now().UTC()
	return util.AtomicWriteJSON(path, ts)
}

// IsStale reports whether every teammate's LastActive is missing or older than the staleness
// threshold, expressed in hours (§4.8 step 2's "no teammate has last_active within the staleness
// window").
func (ts *TeamState) IsStale(staleAfterHours int) bool {
	threshold := time.Duration(staleAfterHours) * time.Hour
	for _, tm := range ts.Teammates {
		if tm.LastActive != nil && time.Since(*tm.LastActive) < threshold {
			return false
		}
	}
	return true
}
