package service

import (
	"errors"

	"github.com/Odiway/battrack/internal/qc/repository"
)

// Service-level error taxonomy. Handlers map these to response codes;
// anything unwrapped falls through as an internal error.
var (
	ErrNotFound   = repository.ErrNotFound
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
