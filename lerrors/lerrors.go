// Package lerrors implements the error taxonomy from spec.md §7: every
// failure in the engine is a value of this type, never a panic, so callers
// can branch on Kind instead of matching strings.
package lerrors

import "fmt"

// Kind classifies an Error per spec.md §7.
type Kind int

const (
	// InvalidParameter covers out-of-range levels, empty palettes, negative
	// shape/power parameters, and malformed hex literals.
	InvalidParameter Kind = iota
	// NotFound covers a named palette missing from both the built-in
	// catalog and the custom directory.
	NotFound
	// Io covers read/write/encode failures.
	Io
	// Internal covers invariant violations that should never happen, such
	// as an empty k-d tree.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid_parameter"
	case NotFound:
		return "not_found"
	case Io:
		return "io"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across package boundaries in this
// module. CacheMiss and CacheCorrupt (spec.md §7) are intentionally absent:
// they are never surfaced, the cache package just treats them as a miss.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind with no wrapped cause.
func New(k Kind, message string) *Error {
	return &Error{Kind: k, Message: message}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(k Kind, message string, cause error) *Error {
	return &Error{Kind: k, Message: message, Err: cause}
}

// Invalidf builds an InvalidParameter error with a formatted message.
func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: InvalidParameter, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds an Internal error with a formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...)}
}
