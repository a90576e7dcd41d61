// internal/harness/runner.go
package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/bdd"
	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/report"
)

// Test is a single acceptance test.
type Test struct {
	Name string
	Tags []string
	// Pending, when set, skips the test with this reason.
	Pending string
	Run     func(ctx context.Context, c *Case, sc *bdd.Scenario)
}

// Suite is a group of tests that share a description, run top down.
type Suite struct {
	Source string
	Group  string
	Tests  []Test
}

// Filter keeps only the tests carrying at least one of tags. Suites left empty are dropped. No
// tags keeps everything.
func Filter(suites []Suite, tags ...string) []Suite {
	if len(tags) == 0 {
		return suites
	}
	var out []Suite
	for _, suite := range suites {
		kept := suite
		kept.Tests = nil
		for _, test := range suite.Tests {
			if slices.ContainsFunc(test.Tags, func(tag string) bool { return slices.Contains(tags, tag) }) {
				kept.Tests = append(kept.Tests, test)
			}
		}
		if len(kept.Tests) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// OpenFunc creates the Case for one test.
type OpenFunc func(ctx context.Context) (*Case, error)

// Runner executes suites one test at a time, each with a fresh browser.
type Runner struct {
	Open OpenFunc
	// Formatter, when set, prints each result as it finishes.
	Formatter *report.Formatter
	// Timeout bounds a single test body. Browser start and teardown are excluded. Zero means no
	// bound.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Run executes every test and returns the results in order. A fatal failure stops the run; the
// remaining tests are reported as pending.
func (r *Runner) Run(ctx context.Context, suites ...Suite) []report.Result {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []report.Result
	halted := ""
	for _, suite := range suites {
		if r.Formatter != nil {
			r.Formatter.Started(suite.Source)
		}
		for _, test := range suite.Tests {
			var res report.Result
			switch {
			case halted != "":
				res = report.Result{Group: suite.Group, Name: test.Name, Status: report.StatusPending, Pending: halted}
			case test.Pending != "":
				res = report.Result{Group: suite.Group, Name: test.Name, Status: report.StatusPending, Pending: test.Pending}
			case ctx.Err() != nil:
				res = report.Result{Group: suite.Group, Name: test.Name, Status: report.StatusPending, Pending: "run interrupted"}
			default:
				res = r.runOne(ctx, logger, suite.Group, test)
			}

			if res.Fatal {
				halted = fmt.Sprintf("suite halted after %q", res.FullName())
				logger.Error("Fatal failure, halting suite.", zap.String("test", res.FullName()), zap.Error(res.Err))
			}
			if r.Formatter != nil {
				r.Formatter.Finished(res)
			}
			results = append(results, res)
		}
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, logger *zap.Logger, group string, test Test) report.Result {
	res := report.Result{Group: group, Name: test.Name}
	start := time.Now()

	// The browser lives on ctx so it outlives the test deadline; Finish still talks to it.
	c, err := r.Open(ctx)
	if err != nil {
		res.Status = report.StatusFailed
		res.Err = fmt.Errorf("opening browser: %w", err)
		res.Duration = time.Since(start)
		return res
	}

	testCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		testCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	sc := bdd.NewScenario()
	runErr := protect(func() { test.Run(testCtx, c, sc) })
	sc.Fail(runErr)
	testErr := sc.Err()

	arts, teardownErr := c.Finish(ctx, testErr)
	res.Steps = sc.Steps()
	res.FailureURL = arts.URL
	res.Screenshot = arts.Screenshot
	res.Err = errors.Join(testErr, teardownErr)
	res.Fatal = failure.IsFatal(testErr)
	if res.Err != nil {
		res.Status = report.StatusFailed
	} else {
		res.Status = report.StatusPassed
	}
	res.Duration = time.Since(start)

	logger.Debug("Test finished.", zap.String("test", res.FullName()), zap.String("status", string(res.Status)), zap.Duration("duration", res.Duration))
	return res
}

// protect turns a panic inside a test body into an error so teardown still runs.
func protect(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	fn()
	return nil
}
