package configmanager

import "errors"

// ErrInvalidOutputFormat is returned when the output setting is not a
// supported format.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// ErrNonPositiveDuration is returned when a duration setting has an
// unusable value.
var ErrNonPositiveDuration = errors.New("duration must be positive")
