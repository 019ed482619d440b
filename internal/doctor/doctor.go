// Package doctor implements the `doctor` command's environment checks (§4.11 teammate health
// plus the SPEC_FULL.md §12 environment checks), following the teacher's Check/Category/Report
// shape so results render uniformly whether they come from a git check or a teammate classifier.
package doctor

// Category groups related checks for display.
type Category string

const (
	CategoryEnvironment Category = "environment"
	CategoryCrew        Category = "crew"
	CategoryTeammate    Category = "teammate"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warn"
	StatusFail  Status = "fail"
)

// Check is one diagnostic probe.
type Check struct {
	Category Category
	Name     string
	Run      func() Result
	CanFix   bool
	Fix      func() error
}

// Result is a check's outcome.
type Result struct {
	Status  Status
	Details []string
}

// Report is the full set of results from a doctor run.
type Report struct {
	Results []CheckResult
}

// CheckResult pairs a Check's identity with its Result.
type CheckResult struct {
	Category Category
	Name     string
	Result   Result
}

// RunAll executes every check in order and collects the results. Checks never panic: Run is
// always a plain function returning a Result, so a failing probe reports StatusFail rather than
// crashing the doctor command.
func RunAll(checks []Check) *Report {
	report := &Report{}
	for _, c := range checks {
		report.Results = append(report.Results, CheckResult{Category: c.Category, Name: c.Name, Result: c.Run()})
	}
	return report
}

// Failing reports whether any check in the report has StatusFail.
func (r *Report) Failing() bool {
	for _, cr := range r.Results {
		if cr.Result.Status == StatusFail {
			return true
		}
	}
	return false
}
