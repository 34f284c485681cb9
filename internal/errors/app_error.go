package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	Field      string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

func (e *AppError) WithField(field string) *AppError {
	e.Field = field

	return e
}

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeConstraint         = "CONSTRAINT_VIOLATION"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeDeserialization    = "DESERIALIZATION_ERROR"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrCodeConflict, message, http.StatusConflict)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func StorageUnavailableError(message string) *AppError {
	return NewAppError(ErrCodeStorageUnavailable, message, http.StatusServiceUnavailable)
}

func DeserializationError(message string) *AppError {
	return NewAppError(ErrCodeDeserialization, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

// ConstraintError reports a field that failed a declared rule (required, min, max, unique...).
func ConstraintError(field, rule string) *AppError {
	status := http.StatusBadRequest
	if rule == "unique" {
		status = http.StatusConflict
	}

	return NewAppError(ErrCodeConstraint, fmt.Sprintf("Field '%s' violates constraint '%s'", field, rule), status).
		WithField(field).
		WithDetail(rule)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

func IsConstraintError(err error) (*AppError, bool) {
	if appErr, ok := IsAppError(err); ok && appErr.Code == ErrCodeConstraint {
		return appErr, true
	}

	return nil, false
}

func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason)).WithField(field)
}
