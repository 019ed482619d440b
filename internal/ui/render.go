package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/capsulekit/capsule/internal/doctor"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func statusStyle(s doctor.Status) lipgloss.Style {
	switch s {
	case doctor.StatusOK:
		return okStyle
	case doctor.StatusWarn:
		return warnStyle
	default:
		return failStyle
	}
}

// RenderDoctorReport renders a doctor report as a category-grouped plain-text table. Colors are
// applied only when ShouldUseColor reports true, so piping output to a file or another tool never
// embeds escape codes.
func RenderDoctorReport(report *doctor.Report) string {
	color := ShouldUseColor()
	var b strings.Builder

	byCategory := map[doctor.Category][]doctor.CheckResult{}
	var order []doctor.Category
	for _, cr := range report.Results {
		if _, seen := byCategory[cr.Category]; !seen {
			order = append(order, cr.Category)
		}
		byCategory[cr.Category] = append(byCategory[cr.Category], cr)
	}

	for _, cat := range order {
		heading := string(cat)
		if color {
			heading = headerStyle.Render(heading)
		}
		fmt.Fprintf(&b, "%s\n", heading)
		for _, cr := range byCategory[cat] {
			status := strings.ToUpper(string(cr.Result.Status))
			if color {
				status = statusStyle(cr.Result.Status).Render(status)
			}
			fmt.Fprintf(&b, "  [%s] %s\n", status, cr.Name)
			for _, d := range cr.Result.Details {
				fmt.Fprintf(&b, "        %s\n", d)
			}
		}
	}
	return b.String()
}

// StatusRow is one line of the crew status table rendered by `capsule status`.
type StatusRow struct {
	Profile, Teammate, Status, LastActive, Branch, Worktree string
	Stale                                                   bool
}

// RenderStatusTable renders the crew status table in the same plain/colored style as the doctor
// report.
func RenderStatusTable(rows []StatusRow) string {
	color := ShouldUseColor()
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-12s %-10s %-10s %-20s %s\n", "PROFILE", "TEAMMATE", "STATUS", "ACTIVE", "BRANCH", "WORKTREE")
	for _, r := range rows {
		status := r.Status
		if r.Stale {
			status += "*"
		}
		if color {
			st := warnStyle
			if !r.Stale && (r.Status == "active") {
				st = okStyle
			}
			status = st.Render(status)
		}
		fmt.Fprintf(&b, "%-12s %-12s %-10s %-10s %-20s %s\n", r.Profile, r.Teammate, status, r.LastActive, r.Branch, r.Worktree)
	}
	return b.String()
}
