package hooks

import (
	"io"
)

const astChunkerThresholdBytes = 200_000

// fileReadTools are tools whose tool_response can legitimately exceed the AST-chunker
// threshold for a single read.
var fileReadTools = map[string]bool{"Read": true, "Grep": true}

// PreToolUse is an advisory gate only (§4.2): it may suggest a specialized tool, but it must
// never reject or rewrite tool input in a way that changes user-visible semantics. It degrades
// silently on any decode failure.
func PreToolUse(r io.Reader, w io.Writer) {
	ev, err := readEvent(r)
	if err != nil {
		logf("pre-tool-use: decoding event: %v", err)
		return
	}

	if ev.ToolName == "Read" || ev.ToolName == "Grep" {
		if path, ok := ev.filePath(); ok {
			_ = path // advisory only; no size is known before the read happens
		}
	}

	if size, ok := approxOutputSize(ev); ok && size > astChunkerThresholdBytes {
		writeResponse(w, Response{
			SystemMessage: "This file is large; consider the AST chunker for a structured view instead of a full read.",
		})
	}
}

func approxOutputSize(ev *Event) (int, bool) {
	v, ok := ev.ToolInput["expected_size"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
