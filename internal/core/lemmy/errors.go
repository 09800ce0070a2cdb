package lemmy

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed indicates the upstream login returned no session token
	ErrAuthFailed = errors.New("lemmy login returned no jwt")
)

// ResolveError reports a failed resolve_object call with the upstream status
// code, so the transport layer can propagate it to the client
type ResolveError struct {
	StatusCode int
	Detail     string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve_object failed with status %d: %s", e.StatusCode, e.Detail)
}
