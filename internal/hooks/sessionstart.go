package hooks

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/crewconfig"
	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/identity"
	"github.com/capsulekit/capsule/internal/record"
	"github.com/capsulekit/capsule/internal/teamstate"
)

// SessionStart composes the additionalContext string §4.2 describes: pruning notice, handoff
// (or best-effort prior session), top discoveries, recent files, team activity, and profile
// status table. Every section is best-effort; a failure in one never drops the others.
func SessionStart(r io.Reader, w io.Writer, cwd string) {
	ev, err := readEvent(r)
	if err != nil {
		logf("session-start: decoding event: %v", err)
		return
	}

	rt, enabled, err := Open(cwd, firstString(ev.Cwd, cwd))
	if err != nil {
		logf("session-start: opening runtime: %v", err)
		return
	}
	if !enabled {
		return
	}
	defer rt.Close()

	var sections []string

	if note := pruningNotice(rt); note != "" {
		sections = append(sections, note)
	}

	if handoffOrPrior := handoffOrPriorSession(rt, cwd); handoffOrPrior != "" {
		sections = append(sections, handoffOrPrior)
	}

	if discoveries := topDiscoveries(rt, 5); discoveries != "" {
		sections = append(sections, discoveries)
	}

	if files := recentFiles(rt, 3); files != "" {
		sections = append(sections, files)
	}

	if rt.CrewIdentity != nil {
		if activity := teamActivity(rt, 3); activity != "" {
			sections = append(sections, activity)
		}
	}

	if table := profileStatusTable(cwd); table != "" {
		sections = append(sections, table)
	}

	if len(sections) == 0 {
		return
	}
	writeResponse(w, Response{AdditionalContext: strings.Join(sections, "\n\n")})
}

func pruningNotice(rt *Runtime) string {
	cutoff := nowUTC().AddDate(0, 0, -constants.DefaultRetentionDays)
	n, err := rt.Store.Prune(cutoff)
	if err != nil || n == 0 {
		return ""
	}
	return fmt.Sprintf("Pruned %d record(s) older than %d days.", n, constants.DefaultRetentionDays)
}

func handoffOrPriorSession(rt *Runtime, cwd string) string {
	if h := mostRecentHandoff(rt); h != nil {
		return "## Handoff\n\n" + h.Summary
	}

	// Best effort: the most recent session-summary record whose stored branch matches the
	// current branch; otherwise the most recent session summary of any branch.
	branch := gitw.NewGit(cwd).CurrentBranch()
	recs, err := rt.Store.List(rt.SessionNS+"/session", 0)
	if err != nil || len(recs) == 0 {
		return ""
	}
	var best, fallback *record.ContextRecord
	for _, rec := range recs {
		if rec.Type != record.TypeMeta || !rec.HasTag("session-summary") {
			continue
		}
		if fallback == nil {
			fallback = rec
		}
		if b, _ := rec.Content["branch"].(string); branch != "" && b == branch {
			best = rec
			break
		}
	}
	if best != nil {
		return "## Prior Session (same branch)\n\n" + best.Summary
	}
	if fallback != nil {
		return "## Prior Session\n\n" + fallback.Summary
	}
	return ""
}

// mostRecentHandoff scans the session subtree for the newest handoff record. A handoff lives at
// <sessionNS>/session/<sid>/handoff, which is a descendant of <sessionNS>, not a direct child of
// it, so a plain Query (exact-namespace match) can never find it; List walks the whole subtree.
func mostRecentHandoff(rt *Runtime) *record.ContextRecord {
	recs, err := rt.Store.List(rt.SessionNS+"/session", 0)
	if err != nil {
		return nil
	}
	for _, rec := range recs {
		if strings.HasSuffix(rec.Namespace, "/"+sessionHandoffSuffix) && rec.HasTag("handoff") {
			return rec
		}
	}
	return nil
}

func topDiscoveries(rt *Runtime, limit int) string {
	recs, err := rt.Store.Query(rt.DiscoveriesNS, record.QueryOptions{OrderBy: "hit_count", Limit: limit})
	if err != nil || len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Top Discoveries\n\n")
	for _, rec := range recs {
		fmt.Fprintf(&b, "- %s\n", rec.Summary)
	}
	return b.String()
}

func recentFiles(rt *Runtime, limit int) string {
	recs, err := rt.Store.List(rt.SessionNS+"/session", 0)
	if err != nil {
		return ""
	}
	var files []*record.ContextRecord
	for _, rec := range recs {
		if strings.HasSuffix(rec.Namespace, "/"+sessionFilesSuffix) {
			files = append(files, rec)
		}
	}
	if len(files) == 0 {
		return ""
	}
	if len(files) > limit {
		files = files[:limit]
	}
	var b strings.Builder
	b.WriteString("## Recently Touched Files\n\n")
	for _, rec := range files {
		fmt.Fprintf(&b, "- %s\n", rec.Title)
	}
	return b.String()
}

func teamActivity(rt *Runtime, limit int) string {
	projectNS := rt.ProjectNS + "/crew"
	recs, err := rt.Store.List(projectNS, 0)
	if err != nil {
		return ""
	}
	var others []*record.ContextRecord
	for _, rec := range recs {
		if rt.TeammateSuffix != "" && strings.Contains(rec.Namespace, "/crew/"+rt.TeammateSuffix+"/") {
			continue
		}
		others = append(others, rec)
	}
	if len(others) == 0 {
		return ""
	}
	if len(others) > limit {
		others = others[:limit]
	}
	var b strings.Builder
	b.WriteString("## Team Activity\n\n")
	for _, rec := range others {
		fmt.Fprintf(&b, "- %s\n", rec.Summary)
	}
	return b.String()
}

func profileStatusTable(projectRoot string) string {
	cfg, err := crewconfig.Load(projectRoot)
	if err != nil || cfg == nil {
		return ""
	}

	projectHash, err := identity.ProjectHash(projectRoot)
	if err != nil {
		return ""
	}
	stateDir, err := identity.CrewStateDir(projectHash)
	if err != nil {
		return ""
	}

	profileNames := profileNamesOf(cfg)

	var b strings.Builder
	b.WriteString("## Crew Status\n\n")
	b.WriteString("| Profile | Teammate | Status | Last Active | Branch | Worktree |\n")
	b.WriteString("|---|---|---|---|---|---|\n")

	wrote := false
	for _, profile := range profileNames {
		ts, err := teamstate.Load(stateDir, profile)
		if err != nil || ts == nil {
			continue
		}
		staleAfter := cfg.StaleAfterHoursOrDefault()
		for name, tm := range ts.Teammates {
			wrote = true
			stale := ""
			lastActive := "never"
			if tm.LastActive != nil {
				lastActive = fmt.Sprintf("%.1fh", time.Since(*tm.LastActive).Hours())
				if ts.IsStale(staleAfter) {
					stale = " (stale)"
				}
			}
			fmt.Fprintf(&b, "| %s | %s | %s%s | %s | %s | %s |\n",
				profile, name, tm.Status, stale, lastActive, tm.Branch, shortPath(tm.WorktreePath))
		}
	}
	if !wrote {
		return ""
	}
	return b.String()
}

func profileNamesOf(cfg *crewconfig.Config) []string {
	if cfg.IsMultiProfile() {
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		return names
	}
	return []string{constants.DefaultProfileName}
}

func shortPath(path string) string {
	if path == "" {
		return "-"
	}
	parts := strings.Split(strings.TrimRight(path, "/"), "/")
	if len(parts) <= 2 {
		return path
	}
	return ".../" + strings.Join(parts[len(parts)-2:], "/")
}
