package hooks

import (
	"fmt"
	"io"

	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/record"
	"github.com/capsulekit/capsule/internal/teamstate"
)

// SessionEnd summarizes the session (file count, sub-agent count, teammate suffix, timestamp)
// and, in crew mode, marks the active teammate idle in its profile's TeamState. Best-effort:
// never blocks on error.
func SessionEnd(r io.Reader, cwd string) {
	ev, err := readEvent(r)
	if err != nil {
		logf("session-end: decoding event: %v", err)
		return
	}

	rt, enabled, err := Open(cwd, firstString(ev.Cwd, cwd))
	if err != nil {
		logf("session-end: opening runtime: %v", err)
		return
	}
	if !enabled {
		return
	}
	defer rt.Close()

	files := listSessionRecords(rt, ev.SessionID, sessionFilesSuffix)
	subagents := listSessionRecords(rt, ev.SessionID, sessionSubagentsSuffix)

	summary := fmt.Sprintf("Session %s ended: %d file op(s), %d sub-agent(s)%s at %s.",
		ev.SessionID, len(files), len(subagents), teammateSuffixNote(rt), nowUTC().Format("2006-01-02T15:04:05Z07:00"))

	branch := gitw.NewGit(cwd).CurrentBranch()

	rec := &record.ContextRecord{
		Namespace: rt.SessionNS + "/session",
		Title:     "session-" + ev.SessionID,
		Summary:   summary,
		Type:      record.TypeMeta,
		Content:   map[string]interface{}{"session_id": ev.SessionID, "file_count": len(files), "subagent_count": len(subagents), "branch": branch},
		Tags:      []string{"session-summary", ev.SessionID},
	}
	if err := rt.Store.Save(rec); err != nil {
		logf("session-end: saving session summary: %v", err)
	}

	if rt.CrewIdentity != nil {
		markTeammateIdle(cwd, rt.CrewIdentity.ProfileName, rt.CrewIdentity.TeammateName)
	}
}

func teammateSuffixNote(rt *Runtime) string {
	if rt.TeammateSuffix == "" {
		return ""
	}
	return " (teammate: " + rt.TeammateSuffix + ")"
}

func markTeammateIdle(projectRoot, profileName, teammateName string) {
	projectHash, err := identity.ProjectHash(projectRoot)
	if err != nil {
		logf("session-end: computing project hash: %v", err)
		return
	}
	stateDir, err := identity.CrewStateDir(projectHash)
	if err != nil {
		logf("session-end: resolving crew state dir: %v", err)
		return
	}

	ts, err := teamstate.Load(stateDir, profileName)
	if err != nil || ts == nil {
		return
	}
	tm, ok := ts.Teammates[teammateName]
	if !ok {
		return
	}
	now := nowUTC()
	tm.Status = teamstate.StatusIdle
	tm.LastActive = &now
	ts.Teammates[teammateName] = tm

	if err := teamstate.Save(stateDir, ts); err != nil {
		logf("session-end: saving team state: %v", err)
	}
}
