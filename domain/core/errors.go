package core

import (
	"errors"
	"fmt"
)

// Inference errors. Every one of them is recoverable at the orchestrator boundary and is
// surfaced to the user as an advisory instead of a number.
var (
	ErrNoBinaryColumnFound        = errors.New("no binary outcome column found")
	ErrTooManyCategories          = errors.New("too many categories")
	ErrInsufficientGroupSize      = errors.New("insufficient group size")
	ErrDegenerateContingencyTable = errors.New("degenerate contingency table")
	ErrNoUsableData               = errors.New("no usable data")
)

// Dataset errors
var (
	ErrColumnNotFound = fmt.Errorf("%w: column not found", ErrNoUsableData)
	ErrEmptyDataset   = errors.New("dataset has no rows")
	ErrDuplicateName  = errors.New("duplicate column name")
)

// Error constructors with context
func NewTooManyCategoriesError(column string, levels, limit int) error {
	return fmt.Errorf("%w: column %s has %d levels (limit %d)", ErrTooManyCategories, column, levels, limit)
}

func NewGroupSizeError(group string, n, min int) error {
	return fmt.Errorf("%w: group %q has %d observations, need at least %d", ErrInsufficientGroupSize, group, n, min)
}

func NewDegenerateTableError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateContingencyTable, reason)
}

func NewNoUsableDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrNoUsableData, reason)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}
