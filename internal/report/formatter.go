// internal/report/formatter.go
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Formatter prints results in documentation style: a "Running:" header per file, one line per
// test, the BDD steps underneath and the URL of every failure.
type Formatter struct {
	mu  sync.Mutex
	out io.Writer

	header  lipgloss.Style
	passed  lipgloss.Style
	failed  lipgloss.Style
	pending lipgloss.Style
	dim     lipgloss.Style

	group    string
	failures []Result
}

// NewFormatter writes to out, with ANSI colors when color is set.
func NewFormatter(out io.Writer, color bool) *Formatter {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Formatter{
		out:     out,
		header:  r.NewStyle().Foreground(lipgloss.Color("12")),
		passed:  r.NewStyle().Foreground(lipgloss.Color("2")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("1")),
		pending: r.NewStyle().Foreground(lipgloss.Color("3")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Started announces a file or suite of tests.
func (f *Formatter) Started(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, f.header.Render("Running: "+strings.TrimSpace(source)))
}

// Finished prints one test as soon as it is done.
func (f *Formatter) Finished(r Result) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Group != f.group {
		fmt.Fprintln(f.out, strings.TrimSpace(r.Group))
		f.group = r.Group
	}

	name := "  " + strings.TrimSpace(r.Name)
	switch r.Status {
	case StatusPassed:
		fmt.Fprintln(f.out, f.passed.Render(name))
	case StatusPending:
		fmt.Fprintln(f.out, f.pending.Render(fmt.Sprintf("%s (PENDING: %s)", name, r.Pending)))
	case StatusFailed:
		f.failures = append(f.failures, r)
		fmt.Fprintln(f.out, f.failed.Render(fmt.Sprintf("%s (FAILED - %d)", name, len(f.failures))))
	}

	for _, step := range r.Steps {
		fmt.Fprintln(f.out, "    "+step.String())
	}

	if r.Status == StatusFailed {
		fmt.Fprintln(f.out, f.header.Render("URL of Failure: "+r.FailureURL))
		fmt.Fprintln(f.out)
	}
}

// Summary prints the failure details and the totals.
func (f *Formatter) Summary(s Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.failures) > 0 {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, "Failures:")
		for i, r := range f.failures {
			fmt.Fprintln(f.out)
			fmt.Fprintf(f.out, "  %d) %s\n", i+1, r.FullName())
			if r.Err != nil {
				for _, line := range strings.Split(r.Err.Error(), "\n") {
					fmt.Fprintln(f.out, f.failed.Render("     "+line))
				}
			}
			if r.Screenshot != "" {
				fmt.Fprintln(f.out, f.dim.Render("     # Screenshot: "+r.Screenshot))
			}
			if r.Fatal {
				fmt.Fprintln(f.out, f.failed.Render("     # Suite halted"))
			}
		}
	}

	fmt.Fprintln(f.out)
	fmt.Fprintf(f.out, "Finished in %.2f seconds\n", s.Duration.Seconds())

	line := fmt.Sprintf("%d %s, %d %s", s.Total, plural(s.Total, "example"), s.Failed, plural(s.Failed, "failure"))
	if s.Pending > 0 {
		line += fmt.Sprintf(", %d pending", s.Pending)
	}
	if s.OK() {
		fmt.Fprintln(f.out, f.passed.Render(line))
	} else {
		fmt.Fprintln(f.out, f.failed.Render(line))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
