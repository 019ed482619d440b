// Package hooks implements the five context-capture event handlers (§4.2): pre-tool-use,
// post-tool-use, session-start, pre-compact, and session-end. Every handler reads a JSON event
// from an io.Reader, writes its optional response to an io.Writer, and never returns an error to
// its caller — failures are logged to stderr and swallowed, because a hook that blocks or crashes
// the host agent runtime is strictly worse than one that silently does nothing.
package hooks

import "time"

// Event is the JSON payload common to every hook invocation (§13's decided tool-event shape:
// session_id, tool_name, tool_input.file_path/.path/.subagent_type/.prompt, tool_result).
// Everything else in the payload is opaque and ignored.
type Event struct {
	SessionID string                 `json:"session_id"`
	Cwd       string                 `json:"cwd"`
	HookEvent string                 `json:"hook_event_name"`
	ToolName  string                 `json:"tool_name"`
	ToolInput map[string]interface{} `json:"tool_input"`
	ToolResult interface{}           `json:"tool_result"`
}

// Response is written back to the host as the hook's structured output.
type Response struct {
	AdditionalContext string `json:"additionalContext,omitempty"`
	SystemMessage     string `json:"systemMessage,omitempty"`
}

func (e *Event) filePath() (string, bool) {
	for _, key := range []string{"file_path", "path"} {
		if v, ok := e.ToolInput[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (e *Event) agentType() string {
	if v, ok := e.ToolInput["subagent_type"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (e *Event) prompt() string {
	if v, ok := e.ToolInput["prompt"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func nowUTC() time.Time { return time.Now().UTC() }
