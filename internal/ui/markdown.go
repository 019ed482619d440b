package ui

import "github.com/charmbracelet/glamour"

// RenderMarkdown renders a markdown document (a handoff preview, typically) for terminal
// display. Falls back to the raw source on any renderer error rather than failing the command.
func RenderMarkdown(source string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return source
	}
	out, err := renderer.Render(source)
	if err != nil {
		return source
	}
	return out
}
