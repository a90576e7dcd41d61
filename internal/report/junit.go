// internal/report/junit.go
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"
)

// JUnitDocument renders results as a single JUnit testsuite.
func JUnitDocument(suite string, results []Result, s Summary) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	ts := doc.CreateElement("testsuite")
	ts.CreateAttr("name", suite)
	ts.CreateAttr("tests", strconv.Itoa(s.Total))
	ts.CreateAttr("failures", strconv.Itoa(s.Failed))
	ts.CreateAttr("skipped", strconv.Itoa(s.Pending))
	ts.CreateAttr("time", seconds(s.Duration.Seconds()))

	for _, r := range results {
		tc := ts.CreateElement("testcase")
		tc.CreateAttr("classname", r.Group)
		tc.CreateAttr("name", r.Name)
		tc.CreateAttr("time", seconds(r.Duration.Seconds()))

		switch r.Status {
		case StatusPending:
			tc.CreateElement("skipped").CreateAttr("message", r.Pending)
		case StatusFailed:
			fe := tc.CreateElement("failure")
			msg := "failed"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			fe.CreateAttr("message", msg)
			fe.SetText(msg)
		}

		var out string
		for _, step := range r.Steps {
			out += fmt.Sprintf("%s [%s]\n", step, step.Status)
		}
		if r.FailureURL != "" {
			out += "URL of Failure: " + r.FailureURL + "\n"
		}
		if r.Screenshot != "" {
			// Picked up as an attachment by the Jenkins JUnit attachments plugin.
			out += "[[ATTACHMENT|" + r.Screenshot + "]]\n"
		}
		if out != "" {
			tc.CreateElement("system-out").SetText(out)
		}
	}

	doc.Indent(2)
	return doc
}

// WriteJUnit writes the JUnit report to path, creating parent directories.
func WriteJUnit(path, suite string, results []Result, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := JUnitDocument(suite, results, s).WriteToFile(path); err != nil {
		return fmt.Errorf("writing junit report: %w", err)
	}
	return nil
}

func seconds(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
