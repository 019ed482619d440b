package worktree

import (
	"embed"

	"github.com/BurntSushi/toml"
)

//go:embed layout.toml
var layoutFS embed.FS

// Layout declares which subdirectories/files of the source project's state directory are shared
// (read-only tooling, symlinked into every worktree) versus local (session state, never shared).
type Layout struct {
	SharedDirs  []string `toml:"shared_dirs"`
	SharedFiles []string `toml:"shared_files"`
}

// LoadLayout parses the embedded layout manifest, following the teacher's
// embed-a-template-then-provision convention (internal/claude/settings.go's config/*.json embed).
func LoadLayout() (*Layout, error) {
	b, err := layoutFS.ReadFile("layout.toml")
	if err != nil {
		return nil, err
	}
	var l Layout
	if _, err := toml.Decode(string(b), &l); err != nil {
		return nil, err
	}
	return &l, nil
}
