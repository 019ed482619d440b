package retrieval

import (
	"testing"

	"github.com/capsulekit/capsule/internal/record"
)

func rec(namespace string, tags ...string) *record.ContextRecord {
	return &record.ContextRecord{Namespace: namespace, Title: "t", Type: record.TypeMeta, Tags: tags}
}

func TestGroupBySessionPartitionsByID(t *testing.T) {
	recs := []*record.ContextRecord{
		rec("proj/abc/session/s1/files"),
		rec("proj/abc/session/s1/subagents"),
		rec("proj/abc/session/s2/files"),
		rec("proj/abc/discoveries"),
	}
	groups := GroupBySession(recs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 session groups, got %d: %+v", len(groups), groups)
	}
	if groups[0].SessionID != "s1" || len(groups[0].Records) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
}

func TestFilterByBranchMatchesSegmentOrTag(t *testing.T) {
	recs := []*record.ContextRecord{
		rec("proj/abc/branch/main/session/s1"),
		rec("proj/abc/session/s2", "branch:main"),
		rec("proj/abc/session/s3", "branch:other"),
	}
	filtered := FilterByBranch(recs, "main")
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches for branch main, got %d", len(filtered))
	}
}
