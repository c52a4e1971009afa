// Package objmgr implements the Loom object-manager core: the Interfaces,
// Settings and Connections inventories, their entities, and the
// apply/revert protocol that binds a Connection to kernel and resolver
// state.
package objmgr

import "fmt"

// Kind classifies an error surfaced to a client of the object manager.
type Kind string

const (
	// InvalidArgument covers validation failures and precondition
	// violations: not found, already exists, already in use, in use,
	// not active, no actives.
	InvalidArgument Kind = "InvalidArgument"

	// TransportError covers a malformed object path or variant type,
	// detected before a handler runs. The core itself never raises it;
	// it exists so callers above objmgr can report the same taxonomy.
	TransportError Kind = "TransportError"
)

// Error is the error type returned by every objmgr operation that can
// fail. Message names the offending entity or key, matching the style
// of the original daemon's GDBus error replies.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts an *Error from err, if any.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
