package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a diary error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound       ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrEmptySelection     ErrorCode = "EMPTY_SELECTION"     // 404
	ErrConflict           ErrorCode = "CONFLICT"            // 409
	ErrCancelled          ErrorCode = "CANCELLED"           // 499
	ErrCorruptData        ErrorCode = "CORRUPT_DATA"        // 500
	ErrInternal           ErrorCode = "INTERNAL"            // 500
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE" // 503
)

// DiaryError represents a structured error with code, status, and details.
type DiaryError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	// cause is the underlying error, if any. Never exposed to callers directly.
	cause error
}

// Error implements the error interface.
func (e *DiaryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so stderrors.Is/As can see through it.
func (e *DiaryError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DiaryError {
	return &DiaryError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(identifier string) *DiaryError {
	return &DiaryError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *DiaryError {
	return &DiaryError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewEmptySelection creates a 404 error for a report request that matched no entries.
func NewEmptySelection() *DiaryError {
	return &DiaryError{
		Code:    ErrEmptySelection,
		Status:  404,
		Message: "no entries found",
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *DiaryError {
	return &DiaryError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewDuplicateID creates a 409 error when an entry id is already stored.
func NewDuplicateID(id string) *DiaryError {
	return &DiaryError{
		Code:    ErrConflict,
		Status:  409,
		Message: fmt.Sprintf("entry with id %q already exists", id),
		Details: map[string]any{"id": id},
	}
}

// NewCancelled creates a 499 error when an operation is cancelled by its context.
func NewCancelled(op string) *DiaryError {
	return &DiaryError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewCorruptData creates a 500 error for persisted content that does not parse.
func NewCorruptData(err error) *DiaryError {
	return &DiaryError{
		Code:    ErrCorruptData,
		Status:  500,
		Message: "stored entries are not valid JSON",
		cause:   err,
	}
}

// NewStorageUnavailable creates a 503 error when the storage medium cannot be used.
func NewStorageUnavailable(err error) *DiaryError {
	msg := "storage unavailable"
	if err != nil {
		msg = fmt.Sprintf("storage unavailable: %v", err)
	}
	return &DiaryError{
		Code:    ErrStorageUnavailable,
		Status:  503,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DiaryError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DiaryError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) a DiaryError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DiaryError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// As returns the DiaryError in err's chain, wrapping anything else as internal.
func As(err error) *DiaryError {
	var dErr *DiaryError
	if stderrors.As(err, &dErr) {
		return dErr
	}
	return NewInternal(err)
}
