package errors

import (
	stderrors "errors"
	"fmt"

	"bankinfer/domain/core"
	"bankinfer/domain/stats"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code is inherited from an
// AppError or taxonomy error in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the first AppError in the chain, the taxonomy
// code of a domain error, or CodeInternalError
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if code, ok := taxonomyCode(err); ok {
		return code
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	// Inference taxonomy
	CodeNoBinaryColumnFound        = "NO_BINARY_COLUMN_FOUND"
	CodeTooManyCategories          = "TOO_MANY_CATEGORIES"
	CodeInsufficientGroupSize      = "INSUFFICIENT_GROUP_SIZE"
	CodeDegenerateContingencyTable = "DEGENERATE_CONTINGENCY_TABLE"
	CodeNoUsableData               = "NO_USABLE_DATA"
)

var taxonomy = []struct {
	sentinel error
	code     string
}{
	{core.ErrNoBinaryColumnFound, CodeNoBinaryColumnFound},
	{core.ErrTooManyCategories, CodeTooManyCategories},
	{core.ErrInsufficientGroupSize, CodeInsufficientGroupSize},
	{core.ErrDegenerateContingencyTable, CodeDegenerateContingencyTable},
	{core.ErrNoUsableData, CodeNoUsableData},
}

func taxonomyCode(err error) (string, bool) {
	for _, t := range taxonomy {
		if stderrors.Is(err, t.sentinel) {
			return t.code, true
		}
	}
	return "", false
}

// IsTaxonomy reports whether err carries an inference taxonomy code
func IsTaxonomy(err error) bool {
	_, ok := taxonomyCode(err)
	return ok
}

// Advise turns an error into a user-facing advisory for section
func Advise(section string, err error) stats.Advisory {
	code, ok := taxonomyCode(err)
	if !ok {
		code = GetCode(err)
	}
	return stats.Advisory{
		Code:    code,
		Section: section,
		Message: err.Error(),
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
