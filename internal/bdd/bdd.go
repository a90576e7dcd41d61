// internal/bdd/bdd.go

// Package bdd records Given/When/Then steps for a single test. Steps run in order; once one fails
// the rest are recorded as skipped and never run.
package bdd

import (
	"errors"
	"fmt"
	"time"
)

// Status is the outcome of one step.
type Status int

const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Step is one recorded phrase.
type Step struct {
	Keyword  string
	Text     string
	Status   Status
	Duration time.Duration
	Err      error
}

// String renders the step the way it reads in a report, e.g. "Given I open the home page".
func (s Step) String() string { return s.Keyword + " " + s.Text }

// StepError ties a failure to the step that raised it.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Scenario collects the steps of one test.
type Scenario struct {
	steps []Step
	err   error
	now   func() time.Time
}

func NewScenario() *Scenario { return &Scenario{now: time.Now} }

func (s *Scenario) Given(text string, fn func() error) { s.run("Given", text, fn) }
func (s *Scenario) When(text string, fn func() error)  { s.run("When", text, fn) }
func (s *Scenario) And(text string, fn func() error)   { s.run("And", text, fn) }
func (s *Scenario) But(text string, fn func() error)   { s.run("But", text, fn) }
func (s *Scenario) Then(text string, fn func() error)  { s.run("Then", text, fn) }

func (s *Scenario) run(keyword, text string, fn func() error) {
	step := Step{Keyword: keyword, Text: text}
	if s.err != nil {
		step.Status = Skipped
		s.steps = append(s.steps, step)
		return
	}

	start := s.now()
	err := fn()
	step.Duration = s.now().Sub(start)
	if err != nil {
		step.Status = Failed
		step.Err = err
		s.err = &StepError{Step: step, Err: err}
	}
	s.steps = append(s.steps, step)
}

// Fail marks the scenario failed outside any step, e.g. from teardown.
func (s *Scenario) Fail(err error) {
	if err == nil {
		return
	}
	s.err = errors.Join(s.err, err)
}

// Err is the first step failure, or nil when every step passed.
func (s *Scenario) Err() error { return s.err }

// Steps returns the recorded steps in order.
func (s *Scenario) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}
