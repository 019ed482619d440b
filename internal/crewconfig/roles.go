package crewconfig

// RolePreset is one row of §4.6's closed dictionary.
type RolePreset struct {
	Model        string
	Mode         string
	SubagentType string
	FocusPrefix  string
}

// RolePresets is the closed set of known role names.
var RolePresets = map[string]RolePreset{
	"developer": {
		Model: "sonnet", Mode: "bypassPermissions", SubagentType: "general-purpose",
		FocusPrefix: "Implement features, write code, fix bugs in your worktree.",
	},
	"reviewer": {
		Model: "sonnet", Mode: "default", SubagentType: "general-purpose",
		FocusPrefix: "Review code for bugs, security, quality. Read-only — do not modify files.",
	},
	"tester": {
		Model: "haiku", Mode: "bypassPermissions", SubagentType: "general-purpose",
		FocusPrefix: "Write and run tests. Ensure coverage for new features.",
	},
	"architect": {
		Model: "opus", Mode: "default", SubagentType: "general-purpose",
		FocusPrefix: "Design architecture, review patterns, suggest improvements. Read-only.",
	},
}

// IsKnownRole reports whether name names a known preset.
func IsKnownRole(name string) bool {
	_, ok := RolePresets[name]
	return ok
}

// ApplyRole resolves t's effective fields: the role supplies defaults, explicit teammate fields
// override, and Focus is the role's FocusPrefix concatenated with the teammate's own Focus.
func ApplyRole(t Teammate) Teammate {
	if t.Role == "" {
		return t
	}
	preset, ok := RolePresets[t.Role]
	if !ok {
		return t
	}
	out := t
	if out.Model == "" {
		out.Model = preset.Model
	}
	if out.Mode == "" {
		out.Mode = preset.Mode
	}
	if out.SubagentType == "" {
		out.SubagentType = preset.SubagentType
	}
	if out.Focus == "" {
		out.Focus = preset.FocusPrefix
	} else {
		out.Focus = preset.FocusPrefix + " " + out.Focus
	}
	return out
}
