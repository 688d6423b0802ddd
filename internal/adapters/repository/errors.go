package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("match not found")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)
