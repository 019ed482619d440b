package identity

import (
	"path/filepath"

	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/util"
)

// ProjectHash computes the stable 12-hex-char ProjectIdentity (§3): sha256 over the upstream
// remote URL if one is configured, else the absolute working directory path.
func ProjectHash(cwd string) (string, error) {
	g := gitw.NewGit(cwd)
	seed := g.RemoteURL("origin")
	if seed == "" {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return "", err
		}
		seed = abs
	}
	return util.HashShort([]byte(seed), 12), nil
}
