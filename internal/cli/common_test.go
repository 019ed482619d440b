package cli

import (
	"testing"

	"github.com/capsulekit/capsule/internal/constants"
	"github.com/capsulekit/capsule/internal/crewconfig"
)

func TestProfileNamesSingleTeam(t *testing.T) {
	cfg := &crewconfig.Config{Team: &crewconfig.Team{Name: "crew"}}
	names := profileNames(cfg)
	if len(names) != 1 || names[0] != constants.DefaultProfileName {
		t.Fatalf("expected [%q], got %v", constants.DefaultProfileName, names)
	}
}

func TestProfileNamesMultiProfile(t *testing.T) {
	cfg := &crewconfig.Config{Profiles: map[string]crewconfig.Team{
		"dev":  {Name: "dev"},
		"prod": {Name: "prod"},
	}}
	names := profileNames(cfg)
	if len(names) != 2 {
		t.Fatalf("expected 2 profile names, got %d", len(names))
	}
}

func TestProfileNamesNilConfig(t *testing.T) {
	if names := profileNames(nil); names != nil {
		t.Fatalf("expected nil for nil config, got %v", names)
	}
}

func TestJoinLines(t *testing.T) {
	got := joinLines([]string{"a", "b", "c"})
	want := "a\n  b\n  c"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResumeLabel(t *testing.T) {
	if resumeLabel(true) != "resume" {
		t.Fatalf("expected resume")
	}
	if resumeLabel(false) != "fresh" {
		t.Fatalf("expected fresh")
	}
}
