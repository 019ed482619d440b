package handoff

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateGroupsFileOpsByAction(t *testing.T) {
	base := time.Now()
	in := Input{
		SessionID: "sess-1",
		FileOps: []FileOp{
			{Path: "/proj/new.go", Action: "Write", Timestamp: base},
			{Path: "/proj/existing.go", Action: "Edit", Timestamp: base.Add(2 * time.Minute)},
			{Path: "/proj/readme.md", Action: "Read", Timestamp: base.Add(3 * time.Minute)},
		},
		SubAgents: []SubAgentUse{{AgentType: "reviewer", Summary: "found a bug in the parser"}},
	}

	out, err := Generate(in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "## Created") || !strings.Contains(out, "new.go") {
		t.Fatalf("expected Created section: %s", out)
	}
	if !strings.Contains(out, "## Modified") || !strings.Contains(out, "existing.go") {
		t.Fatalf("expected Modified section: %s", out)
	}
	if !strings.Contains(out, "## Reviewed") || !strings.Contains(out, "readme.md") {
		t.Fatalf("expected Reviewed section for <=5 reads: %s", out)
	}
	if !strings.Contains(out, "reviewer: found a bug in the parser") {
		t.Fatalf("expected sub-agent line: %s", out)
	}
	if !strings.Contains(out, "## Session Summary") {
		t.Fatalf("expected session summary: %s", out)
	}
}

func TestGenerateOmitsReviewedSectionAboveFiveReads(t *testing.T) {
	base := time.Now()
	var ops []FileOp
	for i := 0; i < 6; i++ {
		ops = append(ops, FileOp{Path: "f.go", Action: "Read", Timestamp: base})
	}
	out, err := Generate(Input{SessionID: "sess-1", FileOps: ops})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "## Reviewed") {
		t.Fatalf("expected no Reviewed section above 5 reads: %s", out)
	}
}

func TestFallbackIsOneLine(t *testing.T) {
	out := Fallback(Input{SessionID: "sess-1", FileOps: []FileOp{{Path: "a"}}})
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("expected a single line, got: %q", out)
	}
}
