package pipeline

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both "no such row" and "owned by someone else".
	// The two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("application not found")

	// ErrInvalid marks a missing or malformed input field.
	ErrInvalid = errors.New("invalid input")
)

// IntegrityError reports a reference to a row that does not exist
// (platform, step definition, feedback definition) or a uniqueness
// conflict, so the transport can give a targeted message.
type IntegrityError struct {
	Reference string
	Err       error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown %s: %v", e.Reference, e.Err)
	}
	return fmt.Sprintf("unknown %s", e.Reference)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// StorageError wraps any storage failure not otherwise classified. The
// surrounding transaction has already been rolled back when it surfaces.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// classify maps a gorm error onto the pipeline taxonomy. Errors already
// classified pass through untouched.
func classify(op string, err error) error {
	var ie *IntegrityError
	var se *StorageError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalid), errors.As(err, &ie), errors.As(err, &se):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &IntegrityError{Reference: "unique key", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &IntegrityError{Reference: "reference", Err: err}
	default:
		return &StorageError{Op: op, Err: err}
	}
}
