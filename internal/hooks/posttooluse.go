package hooks

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/capsulekit/capsule/internal/record"
)

var fileManipulationTools = map[string]bool{"Read": true, "Write": true, "Edit": true}

var discoveryMarkers = []string{
	"found", "discovered", "identified", "pattern:", "issue:", "important:", "key finding:",
}

// PostToolUse is the primary capture path (§4.2). It never returns an error to the host: every
// failure is logged and the hook falls through to an empty response.
func PostToolUse(r io.Reader, w io.Writer, cwd string) {
	ev, err := readEvent(r)
	if err != nil {
		logf("post-tool-use: decoding event: %v", err)
		return
	}

	rt, enabled, err := Open(cwd, firstString(ev.Cwd, cwd))
	if err != nil {
		logf("post-tool-use: opening runtime: %v", err)
		return
	}
	if !enabled {
		return
	}
	defer rt.Close()

	var related []*record.ContextRecord

	if fileManipulationTools[ev.ToolName] {
		if path, ok := ev.filePath(); ok && !underIgnoredPath(path) {
			captureFileOp(rt, ev, path)
			if ev.ToolName == "Read" {
				related = discoverRelated(rt, path)
			}
		}
	}

	if ev.ToolName == "Task" {
		captureSubAgentSpawn(rt, ev)
		captureDiscoveryIfMatch(rt, ev)
	}

	if len(related) > 0 {
		writeResponse(w, Response{AdditionalContext: renderRelatedDiscoveries(related)})
	}
}

func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func captureFileOp(rt *Runtime, ev *Event, path string) {
	tags := []string{"file", ev.ToolName, ev.SessionID}
	if rt.TeammateSuffix != "" {
		tags = append(tags, rt.TeammateSuffix)
	}
	rec := &record.ContextRecord{
		Namespace: sessionNamespace(rt.SessionNS, ev.SessionID, sessionFilesSuffix),
		Title:     filepath.Base(path),
		Summary:   fmt.Sprintf("%s: %s", ev.ToolName, path),
		Type:      record.TypeMeta,
		Content: map[string]interface{}{
			"filePath": path, "action": ev.ToolName, "timestamp": nowUTC().Format("2006-01-02T15:04:05Z07:00"),
		},
		Tags: tags,
	}
	if err := rt.Store.Save(rec); err != nil {
		logf("post-tool-use: saving file-op record: %v", err)
	}
}

func captureSubAgentSpawn(rt *Runtime, ev *Event) {
	agentType := ev.agentType()
	rec := &record.ContextRecord{
		Namespace: sessionNamespace(rt.SessionNS, ev.SessionID, sessionSubagentsSuffix),
		Title:     agentType,
		Summary:   ev.prompt(),
		Type:      record.TypeSummary,
		Content:   map[string]interface{}{"agentType": agentType},
		Tags:      []string{"subagent", ev.SessionID},
	}
	if err := rt.Store.Save(rec); err != nil {
		logf("post-tool-use: saving subagent record: %v", err)
	}
}

// captureDiscoveryIfMatch implements §4.2's crew-mode discovery heuristic: a specialist
// (non-general-purpose) sub-agent whose result matches one of a small set of markers gets its
// first 10-100 char span captured as a shared discovery. Only one discovery per invocation.
func captureDiscoveryIfMatch(rt *Runtime, ev *Event) {
	agentType := ev.agentType()
	if rt.CrewIdentity == nil || agentType == "" || agentType == "general-purpose" {
		return
	}
	text := responseText(ev.ToolResult)
	lower := strings.ToLower(text)
	matched := false
	for _, marker := range discoveryMarkers {
		if strings.Contains(lower, marker) {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	span := text
	if len(span) > 100 {
		span = span[:100]
	}
	if len(span) < 10 {
		return
	}

	rec := &record.ContextRecord{
		Namespace: rt.DiscoveriesNS,
		Title:     fmt.Sprintf("%s-%s", agentType, ev.SessionID),
		Summary:   span,
		Type:      record.TypeSummary,
		Tags:      []string{"discovery", "crew-shared", agentType, rt.TeammateSuffix},
	}
	if err := rt.Store.Save(rec); err != nil {
		logf("post-tool-use: saving discovery record: %v", err)
	}
}

func responseText(resp interface{}) string {
	switch v := resp.(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["text"].(string); ok {
			return s
		}
	}
	return ""
}

// discoverRelated queries the discovery namespaces for records mentioning path or its basename,
// best-effort: never returns an error, just an empty slice on any failure.
func discoverRelated(rt *Runtime, path string) []*record.ContextRecord {
	base := filepath.Base(path)
	discoveryNS := map[string]bool{rt.ProjectNS + "/discoveries": true, rt.DiscoveriesNS: true}
	var found []*record.ContextRecord
	for _, term := range []string{path, base} {
		recs, err := rt.Store.Search(term, 0)
		if err != nil {
			continue
		}
		for _, r := range recs {
			if discoveryNS[r.Namespace] {
				found = append(found, r)
			}
		}
	}
	return found
}

func renderRelatedDiscoveries(recs []*record.ContextRecord) string {
	var b strings.Builder
	b.WriteString("## Related Discoveries\n\n")
	seen := map[string]bool{}
	for _, r := range recs {
		key := r.Namespace + "/" + r.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		fmt.Fprintf(&b, "- %s\n", r.Summary)
	}
	return b.String()
}
