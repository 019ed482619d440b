package hooks

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/capsulekit/capsule/internal/record"
)

func isolate(t *testing.T) (cwd string) {
	t.Helper()
	t.Setenv("CAPSULE_CONFIG_DIR", t.TempDir())
	cwd = t.TempDir()
	return cwd
}

func TestPostToolUseCapturesFileOp(t *testing.T) {
	cwd := isolate(t)
	ev := Event{
		SessionID: "sess-1", Cwd: cwd, ToolName: "Write",
		ToolInput: map[string]interface{}{"file_path": filepath.Join(cwd, "main.go")},
	}
	payload, _ := json.Marshal(ev)

	var out bytes.Buffer
	PostToolUse(bytes.NewReader(payload), &out, cwd)

	rt, enabled, err := Open(cwd, "")
	if err != nil || !enabled {
		t.Fatalf("Open: %v enabled=%v", err, enabled)
	}
	defer rt.Close()

	recs, err := rt.Store.List(sessionNamespace(rt.SessionNS, "sess-1", sessionFilesSuffix), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Title != "main.go" {
		t.Fatalf("expected one captured file-op record, got %+v", recs)
	}
}

func TestPostToolUseSkipsIgnoredPaths(t *testing.T) {
	cwd := isolate(t)
	ev := Event{
		SessionID: "sess-1", Cwd: cwd, ToolName: "Edit",
		ToolInput: map[string]interface{}{"file_path": filepath.Join(cwd, ".git", "config")},
	}
	payload, _ := json.Marshal(ev)

	var out bytes.Buffer
	PostToolUse(bytes.NewReader(payload), &out, cwd)

	rt, _, err := Open(cwd, "")
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	recs, err := rt.Store.List(sessionNamespace(rt.SessionNS, "sess-1", sessionFilesSuffix), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected .git path to be skipped, got %+v", recs)
	}
}

func TestPostToolUseSurfacesRelatedDiscoveriesOnRead(t *testing.T) {
	cwd := isolate(t)
	target := filepath.Join(cwd, "parser.go")

	// Seed a discovery record that mentions the target file.
	rt, _, err := Open(cwd, "")
	if err != nil {
		t.Fatal(err)
	}
	seed := &record.ContextRecord{
		Namespace: rt.DiscoveriesNS, Title: "explorer-sess-0",
		Summary: "found: tokenizer edge case in " + target, Type: record.TypeSummary,
		Tags: []string{"discovery"},
	}
	if err := rt.Store.Save(seed); err != nil {
		t.Fatal(err)
	}
	rt.Close()

	ev := Event{
		SessionID: "sess-1", Cwd: cwd, ToolName: "Read",
		ToolInput: map[string]interface{}{"file_path": target},
	}
	payload, _ := json.Marshal(ev)

	var out bytes.Buffer
	PostToolUse(bytes.NewReader(payload), &out, cwd)

	if !strings.Contains(out.String(), "Related Discoveries") {
		t.Fatalf("expected related discoveries surfaced on read, got %q", out.String())
	}
}

func TestSessionEndWritesSummaryRecord(t *testing.T) {
	cwd := isolate(t)
	ev := Event{SessionID: "sess-1", Cwd: cwd}
	payload, _ := json.Marshal(ev)

	SessionEnd(bytes.NewReader(payload), cwd)

	rt, _, err := Open(cwd, "")
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	recs, err := rt.Store.List(rt.SessionNS, 0)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range recs {
		if r.HasTag("session-summary") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a session-summary record, got %+v", recs)
	}
}

func TestDisabledMarkerShortCircuitsHooks(t *testing.T) {
	cwd := isolate(t)
	if err := os.WriteFile(filepath.Join(cwd, ".capsule-disable"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := Event{SessionID: "sess-1", Cwd: cwd, ToolName: "Write", ToolInput: map[string]interface{}{"file_path": "x"}}
	payload, _ := json.Marshal(ev)

	var out bytes.Buffer
	PostToolUse(bytes.NewReader(payload), &out, cwd)
	if out.Len() != 0 {
		t.Fatalf("expected no output when disabled, got %q", out.String())
	}

	_, enabled, err := Open(cwd, "")
	if err != nil {
		t.Fatal(err)
	}
	if enabled {
		t.Fatal("expected Open to report disabled")
	}
}

func TestPreToolUseDegradesOnMalformedInput(t *testing.T) {
	var out bytes.Buffer
	PreToolUse(strings.NewReader("not json"), &out)
	if out.Len() != 0 {
		t.Fatalf("expected empty output on decode failure, got %q", out.String())
	}
}
