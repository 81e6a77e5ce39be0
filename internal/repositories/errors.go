package repositories

import "errors"

// ErrNotFound is returned when no record exists for the requested identifier.
var ErrNotFound = errors.New("record not found")
