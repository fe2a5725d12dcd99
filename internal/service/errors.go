package service

import (
	"errors"
	"fmt"

	"github.com/minitello/minitello/internal/repository"
)

// Sentinel errors for the step-tree engine. Validation and referential
// errors are detected before any write; transactional failures roll back
// fully and surface as ErrStoreUnavailable wrapping the cause.
var (
	ErrInvalidParent    = errors.New("invalid parent: wrong project")
	ErrCycle            = errors.New("move would create a cycle")
	ErrValidation       = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// classifyStoreErr passes domain errors through untouched and wraps
// everything else (driver faults, broken transactions) as ErrStoreUnavailable.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, ErrInvalidParent),
		errors.Is(err, ErrCycle),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrAccessDenied):
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
