package util

import "testing"

func TestSanitizeBranch(t *testing.T) {
	cases := map[string]string{
		"feat/x":        "feat--x",
		"feat/a":        "feat--a",
		"main":          "main",
		"release/1.2.3": "release--1.2.3",
		"weird name!":   "weird_name_",
	}
	for in, want := range cases {
		if got := SanitizeBranch(in); got != want {
			t.Errorf("SanitizeBranch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNamespaceSegment(t *testing.T) {
	if got := NormalizeNamespaceSegment("  Proj/ABC  "); got != "proj/abc" {
		t.Errorf("got %q", got)
	}
}
