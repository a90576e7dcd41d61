// internal/failure/failure.go

// Package failure defines the tagged error taxonomy shared by every layer that talks to a
// browser. Retry and wait primitives dispatch on the Kind attached to an error, never on its
// concrete type.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the browser or by a resilience primitive.
type Kind uint8

const (
	// KindNone marks an error that carries no classification.
	KindNone Kind = iota
	// KindUnknown is an internal error reported by the driver backend itself.
	KindUnknown
	// KindStaleElement means the element's DOM node is no longer attached to the document.
	KindStaleElement
	// KindNoSuchElement means a locator resolved to nothing.
	KindNoSuchElement
	// KindClickIntercepted means another element would receive the click.
	KindClickIntercepted
	// KindNoSuchWindow means a tab index or handle does not exist.
	KindNoSuchWindow
	// KindTimeout means a polling predicate was never satisfied.
	KindTimeout
	// KindRefreshTimeout means a refresh-until loop exhausted its reloads. It halts the suite.
	KindRefreshTimeout
	// KindJavaScript is an exception thrown by a script evaluated in the page.
	KindJavaScript
	// KindInvalidArgument is a caller error: bad selector, bad index, missing retry kind.
	KindInvalidArgument
	// KindSessionClosed means the session was used after Close.
	KindSessionClosed
)

var kindNames = map[Kind]string{
	KindNone:             "none",
	KindUnknown:          "unknown error",
	KindStaleElement:     "stale element reference",
	KindNoSuchElement:    "no such element",
	KindClickIntercepted: "element click intercepted",
	KindNoSuchWindow:     "no such window",
	KindTimeout:          "timeout",
	KindRefreshTimeout:   "data refresh timed out",
	KindJavaScript:       "javascript error",
	KindInvalidArgument:  "invalid argument",
	KindSessionClosed:    "session closed",
}

// String returns the protocol-style name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error lets a Kind be used as an errors.Is target: errors.Is(err, failure.KindStaleElement).
func (k Kind) Error() string { return k.String() }

// Error is a classified failure. Op names the operation that failed, Err is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// New creates a classified error without an underlying cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a bare Kind target against the error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the outermost classified error in err's chain,
// or KindNone if nothing in the chain is classified.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNone
}

// Is reports whether err is classified as any of the given kinds.
func Is(err error, kinds ...Kind) bool {
	k := KindOf(err)
	if k == KindNone {
		return false
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// IsFatal reports whether err must halt the remaining suite rather than fail a single test.
func IsFatal(err error) bool {
	return KindOf(err) == KindRefreshTimeout
}
