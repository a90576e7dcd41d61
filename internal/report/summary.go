// internal/report/summary.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type summaryDoc struct {
	Total    int          `json:"total"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Pending  int          `json:"pending"`
	Seconds  float64      `json:"seconds"`
	Examples []exampleDoc `json:"examples"`
}

type exampleDoc struct {
	Name       string   `json:"name"`
	Status     Status   `json:"status"`
	Seconds    float64  `json:"seconds"`
	Steps      []string `json:"steps,omitempty"`
	Error      string   `json:"error,omitempty"`
	Pending    string   `json:"pending,omitempty"`
	FailureURL string   `json:"failure_url,omitempty"`
	Screenshot string   `json:"screenshot,omitempty"`
	Fatal      bool     `json:"fatal,omitempty"`
}

// WriteSummaryJSON writes a machine readable copy of the run to path, creating parent directories.
func WriteSummaryJSON(path string, results []Result, s Summary) error {
	doc := summaryDoc{
		Total:    s.Total,
		Passed:   s.Passed,
		Failed:   s.Failed,
		Pending:  s.Pending,
		Seconds:  s.Duration.Seconds(),
		Examples: make([]exampleDoc, 0, len(results)),
	}
	for _, r := range results {
		ex := exampleDoc{
			Name:       r.FullName(),
			Status:     r.Status,
			Seconds:    r.Duration.Seconds(),
			Pending:    r.Pending,
			FailureURL: r.FailureURL,
			Screenshot: r.Screenshot,
			Fatal:      r.Fatal,
		}
		for _, step := range r.Steps {
			ex.Steps = append(ex.Steps, step.String())
		}
		if r.Err != nil {
			ex.Error = r.Err.Error()
		}
		doc.Examples = append(doc.Examples, ex)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}
	return nil
}
