package health

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/capsulekit/capsule/internal/teamstate"
)

func TestClassifyCrashedWhenWorktreeMissing(t *testing.T) {
	tm := teamstate.TeammateState{Status: teamstate.StatusActive}
	if got := Classify(tm, false); got != StatusCrashed {
		t.Fatalf("expected crashed, got %s", got)
	}
}

func TestClassifyActiveWhenRecentlyActive(t *testing.T) {
	recent := time.Now().Add(-1 * time.Minute)
	tm := teamstate.TeammateState{Status: teamstate.StatusActive, LastActive: &recent}
	if got := Classify(tm, true); got != StatusActive {
		t.Fatalf("expected active, got %s", got)
	}
}

func TestClassifyIdleAfterThreshold(t *testing.T) {
	stale := time.Now().Add(-45 * time.Minute)
	tm := teamstate.TeammateState{Status: teamstate.StatusActive, LastActive: &stale}
	if got := Classify(tm, true); got != StatusIdle {
		t.Fatalf("expected idle, got %s", got)
	}
}

func TestClassifyUnresponsiveAfterLongerThreshold(t *testing.T) {
	veryStale := time.Now().Add(-3 * time.Hour)
	tm := teamstate.TeammateState{Status: teamstate.StatusActive, LastActive: &veryStale}
	if got := Classify(tm, true); got != StatusUnresponsive {
		t.Fatalf("expected unresponsive, got %s", got)
	}
}

func TestClassifyUnknownWhenStopped(t *testing.T) {
	tm := teamstate.TeammateState{Status: teamstate.StatusStopped}
	if got := Classify(tm, true); got != StatusUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestWriteTextfileSnapshotProducesValidPromFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capsule.prom")

	reports := []Report{{Teammate: "alice", Status: StatusActive}}
	if err := WriteTextfileSnapshot(path, reports); err != nil {
		t.Fatalf("WriteTextfileSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "capsule_teammate_status") {
		t.Fatalf("expected metric name in output: %s", out)
	}
	if !strings.Contains(out, `teammate="alice"`) {
		t.Fatalf("expected teammate label in output: %s", out)
	}
}
