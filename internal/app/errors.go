package service

import (
	"errors"

	"github.com/okian/smtgolf/internal/adapters/repository"
)

// Sentinel kinds returned by the service. Callers map them with errors.Is.
var (
	ErrMissingFile        = errors.New("no file uploaded")
	ErrMissingMatchNumber = errors.New("match number is required")
	ErrBadRequest         = errors.New("bad request")
	ErrNotStarted         = errors.New("service not started")

	// ErrNotFound is returned for unknown match numbers.
	ErrNotFound = repository.ErrNotFound
)
