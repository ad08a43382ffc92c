package errors

import (
	"fmt"
	"net/http"
	"strings"

	"coffeexport/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// StructuredError is implemented by errors whose details are richer than a string.
type StructuredError interface {
	AppError
	Payload() any
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same error code, so errors derived
// through WithDetails still match their predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Not-found errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrExportNotFound = NewBaseError(
		http.StatusNotFound,
		"EXPORT_NOT_FOUND",
		"Export request not found",
		"",
	)

	ErrExporterNotFound = NewBaseError(
		http.StatusNotFound,
		"EXPORTER_NOT_FOUND",
		"Exporter profile not found",
		"",
	)

	ErrQualificationNotFound = NewBaseError(
		http.StatusNotFound,
		"QUALIFICATION_NOT_FOUND",
		"Qualification record not found",
		"",
	)

	ErrLotNotFound = NewBaseError(
		http.StatusNotFound,
		"LOT_NOT_FOUND",
		"Coffee lot not found",
		"",
	)

	ErrAuditLogNotFound = NewBaseError(
		http.StatusNotFound,
		"AUDIT_LOG_NOT_FOUND",
		"Audit log entry not found",
		"",
	)

	// State machine errors
	ErrInvalidStatusTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_STATUS_TRANSITION",
		"Export is not in a status that allows this action",
		"",
	)

	ErrResubmissionLimitReached = NewBaseError(
		http.StatusConflict,
		"RESUBMISSION_LIMIT_REACHED",
		"Export has reached the maximum number of resubmissions for this stage",
		"",
	)

	ErrLotUnavailable = NewBaseError(
		http.StatusConflict,
		"LOT_UNAVAILABLE",
		"Coffee lot is not available for export",
		"",
	)

	// Validation errors
	ErrMissingRequiredField = NewBaseError(
		http.StatusBadRequest,
		"MISSING_REQUIRED_FIELD",
		"A required field is missing or too short",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrInvalidEstimatedValue = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ESTIMATED_VALUE",
		"Estimated value is below the minimum price per kilogram",
		"",
	)

	// Authorization errors
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"Missing or invalid credentials",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusForbidden,
		"UNAUTHORIZED",
		"You are not permitted to perform this action",
		"",
	)

	// Registry errors
	ErrExporterAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"EXPORTER_ALREADY_REGISTERED",
		"An exporter profile already exists for this user",
		"",
	)

	ErrActiveQualificationExists = NewBaseError(
		http.StatusConflict,
		"ACTIVE_QUALIFICATION_EXISTS",
		"The exporter already holds an active record of this kind",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)

	// Infrastructure errors
	ErrTransactionFailed = NewBaseError(
		http.StatusServiceUnavailable,
		"TRANSACTION_FAILED",
		"Database transaction failed, please retry",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// NewInvalidStatusTransition reports that action cannot be applied at the current status.
func NewInvalidStatusTransition(current, action string) *BaseError {
	return ErrInvalidStatusTransition.WithDetails(
		fmt.Sprintf("cannot apply %s: current status is %s", action, current),
	)
}

// NewMissingRequiredField reports a payload field that is absent or too short.
func NewMissingRequiredField(field string, minLength int) *BaseError {
	if minLength > 0 {
		return ErrMissingRequiredField.WithDetails(
			fmt.Sprintf("%s is required and must be at least %d characters", field, minLength),
		)
	}

	return ErrMissingRequiredField.WithDetails(field + " is required")
}

// QualificationFailedError carries the complete list of unmet exporter requirements.
type QualificationFailedError struct {
	Issues          []string `json:"issues"`
	RequiredActions []string `json:"required_actions"`
}

// NewQualificationFailedError creates a qualification failure from parallel issue and action lists.
func NewQualificationFailedError(issues, requiredActions []string) *QualificationFailedError {
	return &QualificationFailedError{
		Issues:          issues,
		RequiredActions: requiredActions,
	}
}

// Error implements the error interface
func (e *QualificationFailedError) Error() string {
	return "exporter qualification failed: " + strings.Join(e.Issues, "; ")
}

// HTTPCode returns the HTTP status code
func (e *QualificationFailedError) HTTPCode() int {
	return http.StatusUnprocessableEntity
}

// ErrorCode returns the business error code
func (e *QualificationFailedError) ErrorCode() string {
	return "QUALIFICATION_FAILED"
}

// Message returns the user-friendly error message
func (e *QualificationFailedError) Message() string {
	return "Exporter does not meet the export qualification requirements"
}

// Details returns the issues joined with "; "
func (e *QualificationFailedError) Details() string {
	return strings.Join(e.Issues, "; ")
}

// Payload returns the issues and required actions for the response body
func (e *QualificationFailedError) Payload() any {
	return e
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database is temporarily unavailable, please retry"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
