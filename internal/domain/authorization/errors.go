package authorization

import "errors"

// ErrNotFound is returned when an authorization id does not exist.
var ErrNotFound = errors.New("authorization not found")
