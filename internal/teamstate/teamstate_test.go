package teamstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/util"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ts := &TeamState{
		TeamName: "dev", ProfileName: "default", ConfigHash: "abc123", Status: TeamActive,
		StartedAt: time.Now().UTC(), Teammates: map[string]TeammateState{
			"alice": {Branch: "feat/a", Status: StatusPending},
		},
	}
	if err := Save(dir, ts); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir, "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.ConfigHash != "abc123" {
		t.Fatalf("unexpected loaded state: %+v", loaded)
	}
}

func TestLoadMigratesLegacyFlatPath(t *testing.T) {
	dir := t.TempDir()
	legacy := legacyPath(dir)
	if err := os.MkdirAll(filepath.Dir(legacy), 0o755); err != nil {
		t.Fatal(err)
	}
	ts := &TeamState{TeamName: "dev", ProfileName: constants.DefaultProfileName, ConfigHash: "legacy-hash", Status: TeamActive}
	if err := util.AtomicWriteJSON(legacy, ts); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(dir, constants.DefaultProfileName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.ConfigHash != "legacy-hash" {
		t.Fatalf("expected migrated state, got %+v", loaded)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Fatalf("expected legacy file removed after migration")
	}
	if _, err := os.Stat(Path(dir, constants.DefaultProfileName)); err != nil {
		t.Fatalf("expected migrated file at profiled path: %v", err)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	dir := t.TempDir()
	loaded, err := Load(dir, "default")
	if err != nil {
		t.Fatal(err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for missing state, got %+v", loaded)
	}
}

func TestDecideResumeFreshFlagForcesFresh(t *testing.T) {
	d := DecideResume(&TeamState{ConfigHash: "x"}, "x", true, 4)
	if d.Resume {
		t.Fatal("expected fresh when --fresh is set")
	}
}

func TestDecideResumeConfigHashChangeForcesFresh(t *testing.T) {
	d := DecideResume(&TeamState{ConfigHash: "old"}, "new", false, 4)
	if d.Resume {
		t.Fatal("expected fresh on config_hash change")
	}
}

func TestDecideResumeStaleForcesFresh(t *testing.T) {
	old := time.Now().Add(-10 * time.Hour)
	prev := &TeamState{
		ConfigHash: "x",
		Teammates:  map[string]TeammateState{"alice": {LastActive: &old}},
	}
	d := DecideResume(prev, "x", false, 4)
	if d.Resume {
		t.Fatal("expected fresh when stale")
	}
}

func TestDecideResumeSucceedsWhenFreshAndActive(t *testing.T) {
	recent := time.Now().Add(-1 * time.Hour)
	prev := &TeamState{
		ConfigHash: "x",
		Teammates:  map[string]TeammateState{"alice": {LastActive: &recent}},
	}
	d := DecideResume(prev, "x", false, 4)
	if !d.Resume {
		t.Fatalf("expected resume, got fresh: %s", d.Reason)
	}
}

func TestCarryForwardPreservesAgentIDOnResume(t *testing.T) {
	prev := &TeamState{Teammates: map[string]TeammateState{
		"alice": {AgentID: "agent-1", Status: StatusActive},
	}}
	next := &TeamState{Teammates: map[string]TeammateState{
		"alice": {Branch: "feat/a"},
		"bob":   {Branch: "feat/b"},
	}}
	CarryForward(prev, true, next)

	if next.Teammates["alice"].AgentID != "agent-1" {
		t.Fatalf("expected alice's agent_id carried forward, got %+v", next.Teammates["alice"])
	}
	if next.Teammates["bob"].Status != StatusPending || next.Teammates["bob"].AgentID != "" {
		t.Fatalf("expected bob to start pending with no agent_id, got %+v", next.Teammates["bob"])
	}
}
