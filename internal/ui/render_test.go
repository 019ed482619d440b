package ui

import (
	"strings"
	"testing"

	"github.com/capsulekit/capsule/internal/doctor"
)

func TestRenderDoctorReportGroupsByCategory(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	report := &doctor.Report{Results: []doctor.CheckResult{
		{Category: doctor.CategoryEnvironment, Name: "git binary present", Result: doctor.Result{Status: doctor.StatusOK}},
		{Category: doctor.CategoryCrew, Name: "crew config valid", Result: doctor.Result{Status: doctor.StatusFail, Details: []string{"missing"}}},
	}}
	out := RenderDoctorReport(report)
	if !strings.Contains(out, "environment") || !strings.Contains(out, "crew") {
		t.Fatalf("expected both categories rendered: %s", out)
	}
	if !strings.Contains(out, "git binary present") || !strings.Contains(out, "missing") {
		t.Fatalf("expected check name and details rendered: %s", out)
	}
}

func TestRenderStatusTableMarksStale(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	rows := []StatusRow{{Profile: "default", Teammate: "alice", Status: "idle", Stale: true}}
	out := RenderStatusTable(rows)
	if !strings.Contains(out, "idle*") {
		t.Fatalf("expected stale marker appended: %s", out)
	}
}

func TestShouldUseColorRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Fatal("expected NO_COLOR to disable color")
	}
}
