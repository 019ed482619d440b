// Package constants holds well-known file and directory names shared across the kit so
// every package agrees on where state lives without importing each other.
package constants

const (
	// StoreFileName is the canonical record-store filename under the global config dir.
	StoreFileName = "capsule.db"
	// LegacyStoreFileName is honored by the identity resolver if present alongside/instead
	// of StoreFileName (see SPEC_FULL.md §12).
	LegacyStoreFileName = "context.db"

	// ConfigDirName is the directory under the user's home config area that holds global
	// kit state: the record store, the disable marker, and the crew state tree.
	ConfigDirName = "capsule"

	// CrewConfigFileName is the project-root config file name.
	CrewConfigFileName = ".crew-config.json"

	// IdentityFileName is the worktree-root identity file name.
	IdentityFileName = "crew-identity.json"

	// StateDirName is the per-worktree/per-project local state directory name.
	StateDirName = ".capsule-state"

	// RegistryFileName is the per-project worktree registry file name.
	RegistryFileName = "worktrees.json"

	// TeamStateFileName is the per-profile team state file name.
	TeamStateFileName = "team-state.json"

	// DefaultProfileName is used for single-team configs and as the team-state migration target.
	DefaultProfileName = "default"

	// DisableMarkerName disables all hook side effects when present from CWD up to root.
	DisableMarkerName = ".capsule-disable"

	// WorktreeEnvHint points a hook at a specific worktree path when CWD disambiguation fails.
	WorktreeEnvHint = "CAPSULE_WORKTREE_PATH"

	// DefaultStaleAfterHours is the default staleness threshold for resume/health/GC.
	DefaultStaleAfterHours = 4

	// DefaultRetentionDays is the default record pruning window.
	DefaultRetentionDays = 30
)
