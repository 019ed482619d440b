package crewconfig

import (
	"encoding/json"
	"testing"
)

func TestValidateExactlyOneOfTeamOrProfiles(t *testing.T) {
	errs := Validate(&Config{})
	if len(errs) == 0 {
		t.Fatal("expected error when neither team nor profiles is set")
	}

	both := &Config{Team: &Team{Name: "t"}, Profiles: map[string]Team{"p": {Name: "t"}}}
	if errs := Validate(both); len(errs) == 0 {
		t.Fatal("expected error when both team and profiles are set")
	}
}

func TestValidateTeammateFields(t *testing.T) {
	cfg := &Config{Team: &Team{
		Name: "dev",
		Teammates: []Teammate{
			{Name: "alice", Branch: "feat/a"},
			{Name: "bob", Branch: ""},
			{Name: "alice", Branch: "feat/dup"},
			{Name: "carol", Branch: "feat/c", Role: "bogus"},
		},
	}}
	errs := Validate(cfg)
	if len(errs) < 3 {
		t.Fatalf("expected at least 3 errors (missing branch, dup name, bad role), got %v", errs)
	}
}

func TestSingleTeamResolvesAsDefaultProfile(t *testing.T) {
	cfg := &Config{Team: &Team{Name: "dev", Teammates: []Teammate{{Name: "alice", Branch: "feat/a", Role: "developer"}}}}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	resolved, err := ResolveProfile(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ProfileName != "default" {
		t.Fatalf("expected profile name 'default', got %q", resolved.ProfileName)
	}
	if len(resolved.Teammates) != 1 || resolved.Teammates[0].Model != "sonnet" {
		t.Fatalf("expected role defaults applied, got %+v", resolved.Teammates)
	}
}

func TestResolveProfileUnknownErrors(t *testing.T) {
	cfg := &Config{Profiles: map[string]Team{"dev": {Name: "dev", Teammates: []Teammate{{Name: "a", Branch: "b"}}}}}
	if _, err := ResolveProfile(cfg, "nope"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestResolveProfileDefaultFallsBackToConfigDefault(t *testing.T) {
	cfg := &Config{
		Default: "dev",
		Profiles: map[string]Team{
			"dev": {Name: "dev", Teammates: []Teammate{{Name: "alice", Branch: "feat/a"}}},
		},
	}
	resolved, err := ResolveProfile(cfg, "")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ProfileName != "dev" {
		t.Fatalf("expected 'dev', got %q", resolved.ProfileName)
	}
}

func TestApplyRoleOverridesAndConcatenatesFocus(t *testing.T) {
	tm := Teammate{Name: "alice", Branch: "feat/a", Role: "developer", Model: "opus", Focus: "work on auth"}
	out := ApplyRole(tm)
	if out.Model != "opus" {
		t.Fatalf("expected explicit model to win, got %q", out.Model)
	}
	want := "Implement features, write code, fix bugs in your worktree. work on auth"
	if out.Focus != want {
		t.Fatalf("got focus %q, want %q", out.Focus, want)
	}
}

func TestHashStableAcrossKeyOrder(t *testing.T) {
	var cfg1, cfg2 Config
	if err := json.Unmarshal([]byte(`{"team":{"name":"dev","teammates":[{"name":"a","branch":"b"}]}}`), &cfg1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"team":{"teammates":[{"branch":"b","name":"a"}],"name":"dev"}}`), &cfg2); err != nil {
		t.Fatal(err)
	}
	h1, err := Hash(&cfg1)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Hash(&cfg2)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical hashes, got %q and %q", h1, h2)
	}
	if len(h1) != 12 {
		t.Fatalf("expected 12 hex chars, got %d", len(h1))
	}
}

func TestFlattenTeammatesFromCrews(t *testing.T) {
	team := Team{
		Name: "dev",
		Crews: []CrewGroup{
			{Name: "backend", Teammates: []Teammate{{Name: "alice", Branch: "feat/a"}}},
			{Name: "frontend", Teammates: []Teammate{{Name: "bob", Branch: "feat/b"}}},
		},
	}
	flat := flattenTeammates(team)
	if len(flat) != 2 {
		t.Fatalf("expected 2 teammates, got %d", len(flat))
	}
	if flat[0].Crew != "backend" || flat[1].Crew != "frontend" {
		t.Fatalf("expected crew names attached, got %+v", flat)
	}
}
