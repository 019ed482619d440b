package hooks

import (
	"io"

	"github.com/capsulekit/capsule/internal/handoff"
	"github.com/capsulekit/capsule/internal/record"
)

// PreCompact generates the handoff document while full context is still available and persists
// it as a SUMMARY record under the session's handoff namespace (§4.2). On any error it exits
// silently — a failed handoff must never block compaction.
func PreCompact(r io.Reader, cwd string) {
	ev, err := readEvent(r)
	if err != nil {
		logf("pre-compact: decoding event: %v", err)
		return
	}

	rt, enabled, err := Open(cwd, firstString(ev.Cwd, cwd))
	if err != nil {
		logf("pre-compact: opening runtime: %v", err)
		return
	}
	if !enabled {
		return
	}
	defer rt.Close()

	in := handoff.Input{
		SessionID: ev.SessionID,
		FileOps:   handoff.FileOpsFromRecords(listSessionRecords(rt, ev.SessionID, sessionFilesSuffix)),
		SubAgents: handoff.SubAgentsFromRecords(listSessionRecords(rt, ev.SessionID, sessionSubagentsSuffix)),
	}

	doc, err := handoff.Generate(in)
	if err != nil {
		doc = handoff.Fallback(in)
	}

	tags := []string{"handoff", "pre-compact", ev.SessionID}
	if rt.TeammateSuffix != "" {
		tags = append(tags, rt.TeammateSuffix)
	}
	rec := &record.ContextRecord{
		Namespace: sessionNamespace(rt.SessionNS, ev.SessionID, sessionHandoffSuffix),
		Title:     "handoff",
		Summary:   doc,
		Type:      record.TypeSummary,
		Tags:      tags,
	}
	if err := rt.Store.Save(rec); err != nil {
		logf("pre-compact: saving handoff record: %v", err)
	}
}

func listSessionRecords(rt *Runtime, sid, leaf string) []*record.ContextRecord {
	recs, err := rt.Store.List(sessionNamespace(rt.SessionNS, sid, leaf), 0)
	if err != nil {
		return nil
	}
	return recs
}
