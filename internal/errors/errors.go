// Package errors provides structured error types for relaydesk.
// Each error records the operation that failed, a kind for callers to
// branch on, and the underlying cause.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindNetwork
	KindConfig
	KindProtocol
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindProtocol:
		return "protocol error"
	case KindState:
		return "invalid state"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for relaydesk.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error from any mix of Op, Kind, string (context) and error
// arguments. When no error is given the context becomes the error text.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err, or anything it wraps, is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Transport errors

func NotConnected(op Op) error {
	return E(op, KindState, "not connected to the relay")
}

func ConnectFailed(url string, err error) error {
	return E(Op("relay.Connect"), KindNetwork, fmt.Sprintf("failed to connect to %s", url), err)
}

func SendQueueFull(event string) error {
	return E(Op("relay.Emit"), KindNetwork, fmt.Sprintf("outbound queue full, dropped %s", event))
}

func MalformedEvent(event, reason string) error {
	return E(Op("relay.Decode"), KindProtocol, fmt.Sprintf("malformed %s event: %s", event, reason))
}

// Conversation errors

func NoActiveConversation() error {
	return E(Op("app.Send"), KindState, "no conversation selected")
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
