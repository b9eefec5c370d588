package registry

import "errors"

var (
	// ErrDuplicateConnection is returned by Register when the connection id
	// is already tracked.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrConnectionNotFound is returned by Join for a connection the hub
	// does not know about.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidChannelKind is returned by Join for an unrecognized channel kind.
	ErrInvalidChannelKind = errors.New("invalid channel kind")

	// ErrJoinDenied is returned by Join when the authorization gate refuses
	// the membership. Recoverable; surfaced to the caller as-is.
	ErrJoinDenied = errors.New("join denied")
)
