// internal/report/result.go

// Package report turns test outcomes into console output and a JUnit file.
package report

import (
	"time"

	"github.com/xkilldash9x/gauntlet/internal/bdd"
)

// Status is a test outcome.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// Result is one finished test.
type Result struct {
	Group    string
	Name     string
	Status   Status
	Duration time.Duration
	Steps    []bdd.Step
	Err      error
	// Pending explains why a pending test did not run.
	Pending string
	// FailureURL is the page the browser was on when the test failed.
	FailureURL string
	// Screenshot is the path of the failure screenshot, if one was taken.
	Screenshot string
	// Fatal marks a failure that stopped the remaining suite.
	Fatal bool
}

// FullName is the group and test name, as printed in failure listings.
func (r Result) FullName() string {
	if r.Group == "" {
		return r.Name
	}
	return r.Group + " " + r.Name
}

// Summary tallies a run.
type Summary struct {
	Total, Passed, Failed, Pending int
	Duration                       time.Duration
}

// Summarize counts results by status.
func Summarize(results []Result, elapsed time.Duration) Summary {
	s := Summary{Total: len(results), Duration: elapsed}
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusPending:
			s.Pending++
		}
	}
	return s
}

// OK reports whether nothing failed.
func (s Summary) OK() bool { return s.Failed == 0 }
