package repositories

import "errors"

// ErrNotFound is wrapped by every repository when the requested row does not
// exist, so handlers can map misses to 404 with errors.Is instead of matching
// error strings.
var ErrNotFound = errors.New("not found")
