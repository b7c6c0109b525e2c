package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation is returned when input is rejected before it reaches storage.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is returned when a unique name is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInUse is returned when a row is still referenced by other rows.
	ErrInUse = errors.New("still in use")
)

// StorageError wraps a failure reported by the database driver.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapErr maps gorm errors onto the package error kinds.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err came from the database driver.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
