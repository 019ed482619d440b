// Package health implements §4.11: per-teammate liveness classification, an optional
// Prometheus textfile snapshot, and an optional desktop crash notification.
package health

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-toast/toast"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/capsulekit/capsule/internal/gitw"
	"github.com/capsulekit/capsule/internal/teamstate"
	"github.com/capsulekit/capsule/internal/util"
)

// Status is the closed set of classifications a teammate can be in (§4.11).
type Status string

const (
	StatusActive       Status = "active"
	StatusIdle         Status = "idle"
	StatusCrashed      Status = "crashed"
	StatusUnresponsive Status = "unresponsive"
	StatusUnknown      Status = "unknown"
)

// IdleAfter and UnresponsiveAfter are the default thresholds for classification, measured
// against LastActive.
const (
	IdleAfter         = 30 * time.Minute
	UnresponsiveAfter = 2 * time.Hour
)

// Report is one teammate's computed health.
type Report struct {
	Teammate       string
	Status         Status
	LastActive     *time.Time
	RecentCommits  int
	WorktreeExists bool
}

// Classify derives a teammate's status from its TeammateState and the presence of its worktree
// directory. A stopped teammate is "unknown"; any other teammate whose worktree is missing is
// "crashed"; with no LastActive recorded it is "unknown"; silence past UnresponsiveAfter is
// "unresponsive"; silence past IdleAfter is "idle"; otherwise "active".
func Classify(tm teamstate.TeammateState, worktreeExists bool) Status {
	if tm.Status == teamstate.StatusStopped {
		return StatusUnknown
	}
	if !worktreeExists {
		return StatusCrashed
	}
	if tm.LastActive == nil {
		return StatusUnknown
	}
	since := time.Since(*tm.LastActive)
	switch {
	case since >= UnresponsiveAfter:
		return StatusUnresponsive
	case since >= IdleAfter:
		return StatusIdle
	default:
		return StatusActive
	}
}

// CheckAll classifies every teammate in ts, counting recent commits on each teammate's branch via
// the project's git wrapper rooted at the teammate's worktree (best-effort: a missing worktree
// just reports zero commits).
func CheckAll(ts *teamstate.TeamState, windowSince string) []Report {
	reports := make([]Report, 0, len(ts.Teammates))
	for name, tm := range ts.Teammates {
		exists := tm.WorktreePath != "" && dirExists(tm.WorktreePath)

		commits := 0
		if exists {
			g := gitw.NewGit(tm.WorktreePath)
			if n, err := g.CommitsSince(windowSince); err == nil {
				commits = n
			}
		}

		reports = append(reports, Report{
			Teammate: name, Status: Classify(tm, exists), LastActive: tm.LastActive,
			RecentCommits: commits, WorktreeExists: exists,
		})
	}
	return reports
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WriteTextfileSnapshot writes a node_exporter textfile-collector snapshot to path: one gauge per
// (teammate,status) set to 1 for the teammate's current status (§11 domain stack — file-based
// export only, never an HTTP listener, to honor the no-networking non-goal).
func WriteTextfileSnapshot(path string, reports []Report) error {
	reg := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "capsule_teammate_status",
		Help: "Teammate health classification, one gauge per (teammate,status) set to 1 for the current status.",
	}, []string{"teammate", "status"})
	reg.MustRegister(gauge)

	for _, r := range reports {
		gauge.WithLabelValues(r.Teammate, string(r.Status)).Set(1)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	var buf []byte
	w := &byteBuf{}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	buf = w.data

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Written to a ".prom.tmp" sibling first so node_exporter's textfile collector, which
	// polls the directory, never reads a half-written file.
	return util.AtomicWriteFile(path, buf, 0o644)
}

// NotifyCrashed raises a desktop toast for every report classified StatusCrashed. Only supported
// on Windows; elsewhere it sends nothing and reports the platform as the error (`doctor --notify`
// on Linux/macOS prints that error and carries on rather than failing the whole command).
func NotifyCrashed(teamName string, reports []Report) error {
	if runtime.GOOS != "windows" {
		return fmt.Errorf("desktop notifications are only supported on windows")
	}
	for _, r := range reports {
		if r.Status != StatusCrashed {
			continue
		}
		notification := toast.Notification{
			AppID:   "capsule",
			Title:   fmt.Sprintf("%s: teammate crashed", teamName),
			Message: fmt.Sprintf("%s's worktree is missing — its session likely crashed.", r.Teammate),
			Audio:   toast.Default,
		}
		if err := notification.Push(); err != nil {
			return fmt.Errorf("pushing crash notification for %s: %w", r.Teammate, err)
		}
	}
	return nil
}

type byteBuf struct{ data []byte }

func (b *byteBuf) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
