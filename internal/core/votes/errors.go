package votes

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectNotFound indicates the URL doesn't resolve to a known local post/comment
	ErrObjectNotFound = errors.New("could not fetch the object from the URL")
)

// DataSourceError wraps a failed read against the backing store so the
// transport layer can map it separately from not-found.
type DataSourceError struct {
	Op  string // the read that failed, e.g. "list votes"
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is the terminal not-found resolution failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsDataSourceError reports whether err originated from the backing store
func IsDataSourceError(err error) bool {
	var dsErr *DataSourceError
	return errors.As(err, &dsErr)
}
