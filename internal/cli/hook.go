package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/capsulekit/capsule/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:     "hook",
	GroupID: GroupContext,
	Short:   "Run a tool-event hook handler (stdin: JSON event, stdout: best-effort response)",
}

func init() {
	hookCmd.AddCommand(
		&cobra.Command{Use: "pre-tool-use", Short: "Warn on tool calls likely to blow the context budget", RunE: runHookPreToolUse},
		&cobra.Command{Use: "post-tool-use", Short: "Capture file-touch/sub-agent-spawn context, surface related discoveries", RunE: runHookPostToolUse},
		&cobra.Command{Use: "session-start", Short: "Inject prior-session/handoff context at session start", RunE: runHookSessionStart},
		&cobra.Command{Use: "pre-compact", Short: "Snapshot session state before a context compaction", RunE: runHookPreCompact},
		&cobra.Command{Use: "session-end", Short: "Write a session summary record and mark the teammate idle", RunE: runHookSessionEnd},
	)
	rootCmd.AddCommand(hookCmd)
}

// Every hook handler is exit-0-always by contract (§13): RunE never returns an error, it just
// swallows it — stderr logging inside the handlers is the only diagnostic channel.

func runHookPreToolUse(cmd *cobra.Command, args []string) error {
	hooks.PreToolUse(os.Stdin, os.Stdout)
	return nil
}

func runHookPostToolUse(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	hooks.PostToolUse(os.Stdin, os.Stdout, cwd)
	return nil
}

func runHookSessionStart(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	hooks.SessionStart(os.Stdin, os.Stdout, cwd)
	return nil
}

func runHookPreCompact(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	hooks.PreCompact(os.Stdin, cwd)
	return nil
}

func runHookSessionEnd(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	hooks.SessionEnd(os.Stdin, cwd)
	return nil
}
