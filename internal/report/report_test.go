// internal/report/report_test.go
package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gauntlet/internal/bdd"
)

func sampleResults() []Result {
	return []Result{
		{
			Group:    "Contact form:",
			Name:     "submit with invalid email",
			Status:   StatusPassed,
			Duration: 1500 * time.Millisecond,
			Steps: []bdd.Step{
				{Keyword: "Given", Text: "I navigate to the qa-services home page"},
				{Keyword: "Then", Text: "I expect to see an incorrect email error"},
			},
		},
		{
			Group:      "Contact form:",
			Name:       "submit correct form",
			Status:     StatusFailed,
			Duration:   10 * time.Second,
			Err:        errors.New("wait: timeout: submit text not met within 10s (20 evaluations)"),
			FailureURL: "https://qa-services.dev/contact",
			Screenshot: "tmp/report_default/3f1c.png",
			Steps: []bdd.Step{
				{Keyword: "Given", Text: "I navigate to the qa-services page"},
				{Keyword: "Then", Text: "I expect to see success message", Status: bdd.Failed},
			},
		},
		{Group: "Contact form:", Name: "upload attachment", Status: StatusPending, Pending: "upload field not deployed"},
	}
}

func TestFormatter_DocumentationStyle(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, false)
	results := sampleResults()

	f.Started("internal/scenarios/contact.go")
	for _, r := range results {
		f.Finished(r)
	}
	f.Summary(Summarize(results, 11500*time.Millisecond))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "colors are off")
	for _, want := range []string{
		"Running: internal/scenarios/contact.go\n",
		"Contact form:\n",
		"  submit with invalid email\n",
		"    Given I navigate to the qa-services home page\n",
		"  submit correct form (FAILED - 1)\n",
		"URL of Failure: https://qa-services.dev/contact\n",
		"  upload attachment (PENDING: upload field not deployed)\n",
		"  1) Contact form: submit correct form\n",
		"# Screenshot: tmp/report_default/3f1c.png",
		"Finished in 11.50 seconds\n",
		"3 examples, 1 failure, 1 pending\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "Contact form:\n"), "group header printed once")
}

func TestFormatter_Colors(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)

	f.Finished(Result{Group: "g", Name: "passes", Status: StatusPassed})

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults(), time.Second)

	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Pending: 1, Duration: time.Second}, s)
	assert.False(t, s.OK())
	assert.True(t, Summarize(nil, 0).OK())
}

func TestWriteJUnit(t *testing.T) {
	results := sampleResults()
	path := filepath.Join(t.TempDir(), "tmp", "report_default", "junit.xml")

	require.NoError(t, WriteJUnit(path, "gauntlet", results, Summarize(results, 11500*time.Millisecond)))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	suite := doc.SelectElement("testsuite")
	require.NotNil(t, suite)
	assert.Equal(t, "3", suite.SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("failures", ""))
	assert.Equal(t, "1", suite.SelectAttrValue("skipped", ""))
	assert.Equal(t, "11.500", suite.SelectAttrValue("time", ""))

	cases := suite.SelectElements("testcase")
	require.Len(t, cases, 3)
	assert.Nil(t, cases[0].SelectElement("failure"))

	failure := cases[1].SelectElement("failure")
	require.NotNil(t, failure)
	assert.Contains(t, failure.SelectAttrValue("message", ""), "submit text not met")
	out := cases[1].SelectElement("system-out").Text()
	assert.Contains(t, out, "Then I expect to see success message [failed]")
	assert.Contains(t, out, "URL of Failure: https://qa-services.dev/contact")
	assert.Contains(t, out, "[[ATTACHMENT|tmp/report_default/3f1c.png]]")

	require.NotNil(t, cases[2].SelectElement("skipped"))
}

func TestWriteSummaryJSON(t *testing.T) {
	results := sampleResults()
	path := filepath.Join(t.TempDir(), "report_default", "summary.json")

	require.NoError(t, WriteSummaryJSON(path, results, Summarize(results, 11500*time.Millisecond)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc summaryDoc
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 1, doc.Failed)
	assert.InDelta(t, 11.5, doc.Seconds, 0.001)
	require.Len(t, doc.Examples, 3)

	failed := doc.Examples[1]
	assert.Equal(t, "Contact form: submit correct form", failed.Name)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "https://qa-services.dev/contact", failed.FailureURL)
	assert.Equal(t, []string{"Given I navigate to the qa-services page", "Then I expect to see success message"}, failed.Steps)
	assert.Equal(t, "upload field not deployed", doc.Examples[2].Pending)
}
