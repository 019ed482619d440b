// Package registry persists the per-project worktree registry (§3, §6): the authoritative list
// of active worktrees used for identity disambiguation and orphan GC. It is a small leaf package
// so both the identity resolver and the worktree manager can depend on it without a cycle.
package registry

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/util"
)

// Entry is one registered worktree.
type Entry struct {
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry is the on-disk shape at `<global>/crew/<project_hash>/worktrees.json`.
type Registry struct {
	Worktrees []Entry `json:"worktrees"`
}

// Path returns the registry file path for a given project-hash state directory.
func Path(projectStateDir string) string {
	return filepath.Join(projectStateDir, constants.RegistryFileName)
}

// Load reads the registry at path. A missing file is not an error; it returns an empty Registry.
func Load(path string) (*Registry, error) {
	var reg Registry
	err := util.ReadJSON(path, &reg)
	if os.IsNotExist(err) {
		return &Registry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save writes the registry atomically, guarded by a cross-process file lock so concurrent
// read-modify-write callers (provisioning and GC) never clobber each other (§5).
func Save(path string, reg *Registry) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return util.AtomicWriteJSON(path, reg)
}

// Upsert adds or replaces the entry with the given name under a held lock.
func Upsert(path string, entry Entry) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	reg, err := Load(path)
	if err != nil {
		return err
	}
	replaced := false
	for i, e := range reg.Worktrees {
		if e.Name == entry.Name {
			reg.Worktrees[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		reg.Worktrees = append(reg.Worktrees, entry)
	}
	return util.AtomicWriteJSON(path, reg)
}

// Remove deletes the entry with the given name under a held lock. Returns false if no entry
// matched.
func Remove(path, name string) (bool, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return false, err
	}
	defer lock.Unlock()

	reg, err := Load(path)
	if err != nil {
		return false, err
	}
	out := reg.Worktrees[:0]
	found := false
	for _, e := range reg.Worktrees {
		if e.Name == name {
			found = true
			continue
		}
		out = append(out, e)
	}
	reg.Worktrees = out
	if !found {
		return false, nil
	}
	return true, util.AtomicWriteJSON(path, reg)
}

// FindByPathPrefix returns the entry whose Path is a prefix of filePath, if any.
func (r *Registry) FindByPathPrefix(filePath string) (Entry, bool) {
	for _, e := range r.Worktrees {
		if e.Path == filePath || len(filePath) > len(e.Path) && filePath[:len(e.Path)] == e.Path &&
			(filePath[len(e.Path)] == '/' || filePath[len(e.Path)] == os.PathSeparator) {
			return e, true
		}
	}
	return Entry{}, false
}
