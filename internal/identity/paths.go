// Package identity resolves the three identities every component needs (§4.1): the canonical
// record-store location, the ProjectIdentity hash, and the optional CrewIdentity.
package identity

import (
	"os"
	"path/filepath"

	"github.com/capsulekit/capsule/internal/constants"
)

const configDirEnv = "CAPSULE_CONFIG_DIR"

// GlobalConfigDir returns the single global path under the user's home config area that holds
// the record store, the disable marker, and the crew state tree. Honors CAPSULE_CONFIG_DIR for
// tests and non-standard installs.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(configDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, constants.ConfigDirName), nil
}

// StorePath resolves the canonical record-store file. It tries the current name first, then the
// legacy name (§12); if neither exists, it returns the current name so callers create it fresh.
func StorePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	current := filepath.Join(dir, constants.StoreFileName)
	if _, err := os.Stat(current); err == nil {
		return current, nil
	}
	legacy := filepath.Join(dir, constants.LegacyStoreFileName)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, nil
	}
	return current, nil
}

// CrewStateDir returns `<global>/crew/<projectHash>`, the per-project state directory holding
// the worktree registry and every profile's TeamState.
func CrewStateDir(projectHash string) (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "crew", projectHash), nil
}

// IsDisabled walks from cwd up to the filesystem root looking for the disable marker file
// (§4.1's "disable switch"). Its presence disables all hook side effects.
func IsDisabled(cwd string) bool {
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, constants.DisableMarkerName)); err == nil {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
