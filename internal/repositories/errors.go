package repositories

import "errors"

// ErrNotFound is wrapped by repositories when a record does not exist so
// services can map it to a 404 without string matching.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err originated from a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
