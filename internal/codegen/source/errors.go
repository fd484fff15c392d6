package source

import (
	"errors"
	"fmt"
)

// ErrUnresolved is returned when no candidate produced a document.
var ErrUnresolved = errors.New("document unresolved")

// RemoteKind classifies a failed remote fetch.
type RemoteKind string

const (
	RemoteStatus     RemoteKind = "http-status"
	RemoteTransport  RemoteKind = "transport"
	RemoteUnexpected RemoteKind = "unexpected"
)

// RemoteError describes a failed remote fetch.
type RemoteError struct {
	Kind   RemoteKind
	URL    string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Kind == RemoteStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// MalformedError describes a local candidate that exists but could not be read or parsed.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
