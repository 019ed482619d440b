// Package retrieval adds the stats-surface aggregations (§4.4) that sit above the record store's
// direct CRUD surface: session grouping and branch filtering. Everything else in §4.4's read-only
// operation list (search/list/query/resolve/save/prune) is exposed directly by *record.Store and
// does not need a wrapper.
package retrieval

import (
	"strings"

	"github.com/capsulekit/capsule/internal/record"
)

// SessionGroup is every record captured under one `session/<sid>/...` namespace segment.
type SessionGroup struct {
	SessionID string
	Records   []*record.ContextRecord
}

// GroupBySession partitions records by the session id embedded in their namespace
// (`.../session/<sid>/...`). Records whose namespace carries no session segment are dropped.
func GroupBySession(recs []*record.ContextRecord) []SessionGroup {
	order := []string{}
	groups := map[string][]*record.ContextRecord{}
	for _, r := range recs {
		sid, ok := sessionID(r.Namespace)
		if !ok {
			continue
		}
		if _, seen := groups[sid]; !seen {
			order = append(order, sid)
		}
		groups[sid] = append(groups[sid], r)
	}
	out := make([]SessionGroup, 0, len(order))
	for _, sid := range order {
		out = append(out, SessionGroup{SessionID: sid, Records: groups[sid]})
	}
	return out
}

func sessionID(namespace string) (string, bool) {
	segments := strings.Split(namespace, "/")
	for i, seg := range segments {
		if seg == "session" && i+1 < len(segments) {
			return segments[i+1], true
		}
	}
	return "", false
}

// FilterByBranch keeps only records whose namespace contains a `branch/<name>` segment or that
// carry a `branch:<name>` tag (§4.4's "branch filter via namespace segment or tag prefix").
func FilterByBranch(recs []*record.ContextRecord, branch string) []*record.ContextRecord {
	tag := "branch:" + branch
	segment := "branch/" + branch
	var out []*record.ContextRecord
	for _, r := range recs {
		if strings.Contains(r.Namespace, segment) || r.HasTag(tag) {
			out = append(out, r)
		}
	}
	return out
}

// Stats aggregates the counts the stats surface presents: by-type totals, top file titles, and
// top sub-agent titles.
type Stats struct {
	CountByType map[record.Type]int
	TopFiles    []TitleCount
	TopAgents   []TitleCount
}

// TitleCount is one (title, occurrence count) pair.
type TitleCount struct {
	Title string
	Count int
}

// ComputeStats builds the full stats snapshot from the store's own aggregation queries.
func ComputeStats(store *record.Store, topK int) (*Stats, error) {
	byType, err := store.CountByType()
	if err != nil {
		return nil, err
	}
	files, err := store.TopTitles("files", topK)
	if err != nil {
		return nil, err
	}
	agents, err := store.TopTitles("subagents", topK)
	if err != nil {
		return nil, err
	}
	return &Stats{
		CountByType: byType,
		TopFiles:    convertTitleCounts(files),
		TopAgents:   convertTitleCounts(agents),
	}, nil
}

func convertTitleCounts(in []struct {
	Title string
	Count int
}) []TitleCount {
	out := make([]TitleCount, len(in))
	for i, e := range in {
		out[i] = TitleCount{Title: e.Title, Count: e.Count}
	}
	return out
}
