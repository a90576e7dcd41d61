// internal/webdriver/cdp/classify.go
package cdp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/runtime"

	"github.com/xkilldash9x/gauntlet/internal/failure"
)

// Markers are matched case-insensitively against protocol messages and JS exception descriptions.
// The first group mirrors the messages the page scripts in scripts.go throw.
var markers = []struct {
	kind    failure.Kind
	needles []string
}{
	{failure.KindClickIntercepted, []string{"element click intercepted"}},
	{failure.KindStaleElement, []string{
		"stale element reference",
		"could not find object with given id",
		"cannot find context with specified id",
		"execution context was destroyed",
		"no node with given id found",
		"node is detached from document",
		"inspected target navigated or closed",
	}},
	{failure.KindNoSuchElement, []string{"no such element"}},
	{failure.KindInvalidArgument, []string{"is not a valid selector", "is not a valid xpath expression"}},
	{failure.KindNoSuchWindow, []string{"no target with given id", "no such window"}},
}

// classify tags err with the failure kind it represents. Errors that are neither protocol
// errors nor page exceptions (context cancellation, transport failures) are wrapped with the
// op name but left unclassified.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if failure.KindOf(err) != failure.KindNone {
		return err
	}

	text := describe(err)
	lower := strings.ToLower(text)
	for _, m := range markers {
		for _, needle := range m.needles {
			if strings.Contains(lower, needle) {
				return &failure.Error{Kind: m.kind, Op: op, Msg: text, Err: err}
			}
		}
	}

	var exp *runtime.ExceptionDetails
	if errors.As(err, &exp) {
		return &failure.Error{Kind: failure.KindJavaScript, Op: op, Msg: text, Err: err}
	}

	// Anything else the backend reports over the protocol is an internal driver error.
	var perr *cdproto.Error
	if errors.As(err, &perr) {
		return &failure.Error{Kind: failure.KindUnknown, Op: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// describe extracts the most useful text from err. Page exceptions carry the thrown message in
// the exception object's description rather than in Text.
func describe(err error) string {
	var exp *runtime.ExceptionDetails
	if errors.As(err, &exp) {
		if exp.Exception != nil && exp.Exception.Description != "" {
			// Drop the stack trace that follows the first line.
			desc, _, _ := strings.Cut(exp.Exception.Description, "\n")
			return desc
		}
		return exp.Text
	}
	return err.Error()
}
