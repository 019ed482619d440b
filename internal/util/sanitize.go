package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	invalidPathChar = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	lowerer         = cases.Lower(language.Und)
)

// SanitizeBranch implements the worktree-path branch sanitization rule from §3:
// "/" becomes "--", any other character outside [A-Za-z0-9._-] becomes "_".
func SanitizeBranch(branch string) string {
	s := strings.ReplaceAll(branch, "/", "--")
	return invalidPathChar.ReplaceAllString(s, "_")
}

// NormalizeNamespaceSegment lowercases a namespace path segment and strips characters that
// would break the "/"-separated namespace grammar, per §3's "lowercase ASCII segments" invariant.
func NormalizeNamespaceSegment(segment string) string {
	s := lowerer.String(strings.TrimSpace(segment))
	s = strings.Trim(s, "/")
	return s
}
