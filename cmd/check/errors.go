package check

import "errors"

// ErrInvalidTimeout is returned when the positional timeout argument is
// not a positive whole number of seconds.
var ErrInvalidTimeout = errors.New("invalid timeout")
