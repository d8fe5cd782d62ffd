// Package validate runs read-only structure checks over Markdown documents.
package validate

import "fmt"

// Severity of an Issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Check names.
const (
	CheckSectionNumbering = "section_numbering"
	CheckHeadingLevels    = "heading_levels"
	CheckBulletHierarchy  = "bullet_hierarchy"
	CheckCompleteness     = "content_completeness"
	CheckCrossReferences  = "cross_references"
	CheckFileRead         = "file_read"
)

// Issue is one finding from a check.
type Issue struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"` // 1-based, 0 when document-wide
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d) - %s", i.Severity, i.Check, i.Line, i.Message)
	}
	return fmt.Sprintf("%s: %s - %s", i.Severity, i.Check, i.Message)
}

// Status is the overall verdict of a Result.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Result collects every issue found in one document.
type Result struct {
	Path         string  `json:"path"`
	ChecksRun    int     `json:"checks_run"`
	ChecksPassed int     `json:"checks_passed"`
	ChecksFailed int     `json:"checks_failed"`
	Issues       []Issue `json:"issues"`
}

// Record adds the issues of one check. A check passes when it has no
// issues and fails when at least one issue is an ERROR.
func (r *Result) Record(issues []Issue) {
	r.ChecksRun++
	r.Issues = append(r.Issues, issues...)
	if len(issues) == 0 {
		r.ChecksPassed++
		return
	}
	for _, i := range issues {
		if i.Severity == SeverityError {
			r.ChecksFailed++
			return
		}
	}
}

// Status is FAIL iff the result holds at least one ERROR.
func (r *Result) Status() Status {
	if r.Errors() > 0 {
		return StatusFail
	}
	return StatusPass
}

// Passed reports whether Status is PASS.
func (r *Result) Passed() bool {
	return r.Status() == StatusPass
}

// Errors counts ERROR issues.
func (r *Result) Errors() int {
	return r.count(SeverityError)
}

// Warnings counts WARNING issues.
func (r *Result) Warnings() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// Promote turns every WARNING into an ERROR.
func Promote(issues []Issue) []Issue {
	out := make([]Issue, len(issues))
	for i, issue := range issues {
		if issue.Severity == SeverityWarning {
			issue.Severity = SeverityError
		}
		out[i] = issue
	}
	return out
}
