package hooks

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/record"
)

// Runtime bundles everything a hook needs once identity has been resolved: the open record
// store, the namespace prefix rooted at the project (and, in crew mode, the teammate), and
// whether crew mode is active at all.
type Runtime struct {
	Store          *record.Store
	ProjectNS      string // proj/<hash>
	SessionNS      string // proj/<hash>[/crew/<teammate>]
	DiscoveriesNS  string // shared discoveries namespace for this identity
	CrewIdentity   *identity.CrewIdentity
	TeammateSuffix string // "" outside crew mode
}

// Open resolves identity for cwd, opens the global record store, and computes this invocation's
// namespace prefixes. Returns (nil, false) when the disable marker is present — callers must
// treat that as "do nothing, exit cleanly".
func Open(cwd, filePathHint string) (*Runtime, bool, error) {
	if identity.IsDisabled(cwd) {
		return nil, false, nil
	}

	storePath, err := identity.StorePath()
	if err != nil {
		return nil, false, err
	}
	store, err := record.Open(storePath)
	if err != nil {
		return nil, false, err
	}

	projectHash, err := identity.ProjectHash(cwd)
	if err != nil {
		store.Close()
		return nil, false, err
	}

	hint := identity.ResolveHint{Cwd: cwd, ProjectHash: projectHash, FilePath: filePathHint}
	crewID, err := identity.ResolveCrewIdentity(hint)
	if err != nil {
		crewID = nil // ambiguous/absent crew identity is not fatal, just means solo mode
	}

	projectNS := "proj/" + projectHash
	sessionNS := projectNS
	discoveriesNS := projectNS + "/discoveries"
	suffix := ""
	if crewID != nil {
		sessionNS = projectNS + "/crew/" + crewID.TeammateName
		discoveriesNS = projectNS + "/crew/_shared/discoveries"
		suffix = crewID.TeammateName
	}

	return &Runtime{
		Store: store, ProjectNS: projectNS, SessionNS: sessionNS,
		DiscoveriesNS: discoveriesNS, CrewIdentity: crewID, TeammateSuffix: suffix,
	}, true, nil
}

func (rt *Runtime) Close() {
	if rt != nil && rt.Store != nil {
		rt.Store.Close()
	}
}

// loadCrewConfig is best-effort: a missing or invalid config is simply "no crew config", not an
// error propagated to the hook caller.
func loadCrewConfig(projectRoot string) *crewconfig.Config {
	cfg, err := crewconfig.Load(projectRoot)
	if err != nil || cfg == nil {
		return nil
	}
	return cfg
}

// underIgnoredPath reports whether path sits under a VCS metadata directory or a common
// dependency cache (§4.2's post-tool-use capture exclusion).
func underIgnoredPath(path string) bool {
	ignored := []string{
		string(filepath.Separator) + ".git" + string(filepath.Separator),
		string(filepath.Separator) + "node_modules" + string(filepath.Separator),
		string(filepath.Separator) + "vendor" + string(filepath.Separator),
		string(filepath.Separator) + ".venv" + string(filepath.Separator),
		string(filepath.Separator) + "__pycache__" + string(filepath.Separator),
	}
	normalized := path
	if !strings.HasSuffix(normalized, string(filepath.Separator)) {
		normalized += string(filepath.Separator)
	}
	for _, frag := range ignored {
		if strings.Contains(normalized, frag) {
			return true
		}
	}
	return false
}

// readEvent decodes the hook's JSON payload from r. A malformed payload is reported, not
// panicked on, so the caller can degrade to a no-op.
func readEvent(r io.Reader) (*Event, error) {
	var ev Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func writeResponse(w io.Writer, resp Response) {
	if resp.AdditionalContext == "" && resp.SystemMessage == "" {
		return
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(resp)
}

// logf writes a diagnostic line to stderr, matching the hooks' "stderr-only logging, stdout is
// reserved for the host-facing response" convention.
func logf(format string, args ...interface{}) {
	log.SetOutput(os.Stderr)
	log.Printf(format, args...)
}

const sessionFilesSuffix = "files"
const sessionSubagentsSuffix = "subagents"
const sessionHandoffSuffix = "handoff"

func sessionNamespace(sessionNS, sid, leaf string) string {
	return sessionNS + "/session/" + sid + "/" + leaf
}
