// Package handoff renders the markdown handoff document (§4.3) that pre-compact persists as a
// SUMMARY record and session-start injects into the next session's context.
package handoff

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/capsulekit/capsule/internal/record"
)

// FileOp is one captured file-manipulation event.
type FileOp struct {
	Path      string
	Action    string // "Read", "Write", "Edit"
	Timestamp time.Time
}

// SubAgentUse is one captured Task-tool spawn.
type SubAgentUse struct {
	AgentType string
	Summary   string
}

// Input is everything the generator needs, already extracted from the session's records by the
// caller (the hooks package owns namespace layout and query calls).
type Input struct {
	SessionID string
	FileOps   []FileOp
	SubAgents []SubAgentUse
}

// Generate renders the handoff document. On any internal failure (panics are never expected here
// since the function is pure, but defensive callers should still treat a returned error as
// "use Fallback") it returns an error; callers fall back to Fallback(input) rather than propagate.
func Generate(in Input) (string, error) {
	var b strings.Builder

	created, modified, reviewed := classify(in.FileOps)

	b.WriteString("# Session Handoff\n\n")

	writeFileGroup(&b, "Created", created)
	writeFileGroup(&b, "Modified", modified)
	if len(reviewed) > 0 && len(reviewed) <= 5 {
		writeFileGroup(&b, "Reviewed", reviewed)
	}

	if len(in.SubAgents) > 0 {
		b.WriteString("## Sub-Agents Used\n\n")
		for _, sa := range in.SubAgents {
			summary := sa.Summary
			if len(summary) > 180 {
				summary = summary[:180]
			}
			fmt.Fprintf(&b, "- %s: %s\n", sa.AgentType, summary)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Session Summary\n\n")
	fmt.Fprintf(&b, "%d file operations, %d sub-agent(s)", len(in.FileOps), len(in.SubAgents))
	if dur, ok := duration(in.FileOps); ok {
		fmt.Fprintf(&b, ", spanning %s", dur.Round(time.Second))
	}
	b.WriteString(".\n")

	return b.String(), nil
}

// Fallback renders the minimal one-line summary §4.3 requires when Generate's richer rendering
// fails.
func Fallback(in Input) string {
	return fmt.Sprintf("Session %s: %d file operation(s), %d sub-agent(s).\n", in.SessionID, len(in.FileOps), len(in.SubAgents))
}

func classify(ops []FileOp) (created, modified, reviewed []FileOp) {
	for _, op := range ops {
		switch op.Action {
		case "Write":
			created = append(created, op)
		case "Edit":
			modified = append(modified, op)
		case "Read":
			reviewed = append(reviewed, op)
		default:
			modified = append(modified, op)
		}
	}
	return
}

func writeFileGroup(b *strings.Builder, heading string, ops []FileOp) {
	if len(ops) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, op := range ops {
		fmt.Fprintf(b, "- `%s`\n", op.Path)
	}
	b.WriteString("\n")
}

func duration(ops []FileOp) (time.Duration, bool) {
	if len(ops) == 0 {
		return 0, false
	}
	times := make([]time.Time, 0, len(ops))
	for _, op := range ops {
		if !op.Timestamp.IsZero() {
			times = append(times, op.Timestamp)
		}
	}
	if len(times) < 2 {
		return 0, false
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times[len(times)-1].Sub(times[0]), true
}

// FileOpsFromRecords extracts FileOp entries from META records captured under a session's
// `files` namespace (§4.2's post-tool-use capture shape).
func FileOpsFromRecords(recs []*record.ContextRecord) []FileOp {
	out := make([]FileOp, 0, len(recs))
	for _, r := range recs {
		path, _ := r.Content["filePath"].(string)
		action, _ := r.Content["action"].(string)
		out = append(out, FileOp{Path: path, Action: action, Timestamp: r.UpdatedAt})
	}
	return out
}

// SubAgentsFromRecords extracts SubAgentUse entries from SUMMARY records captured under a
// session's `subagents` namespace.
func SubAgentsFromRecords(recs []*record.ContextRecord) []SubAgentUse {
	out := make([]SubAgentUse, 0, len(recs))
	for _, r := range recs {
		agentType, _ := r.Content["agentType"].(string)
		out = append(out, SubAgentUse{AgentType: agentType, Summary: r.Summary})
	}
	return out
}
