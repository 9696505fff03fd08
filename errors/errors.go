package errors

import (
	"fmt"
	"net/http"

	"github.com/rijnfleet/fleet-backend/logger"
)

type ErrorType string

const (
	ValidationError              ErrorType = "VALIDATION_ERROR"
	NotFoundError                ErrorType = "NOT_FOUND"
	AuthError                    ErrorType = "AUTHENTICATION_ERROR"
	ForbiddenError               ErrorType = "FORBIDDEN"
	DatabaseError                ErrorType = "DATABASE_ERROR"
	ServerError                  ErrorType = "SERVER_ERROR"
	ConflictError                ErrorType = "CONFLICT"
	EarningNotFoundError         ErrorType = "EARNING_NOT_FOUND"
	EarningAlreadyLinkedError    ErrorType = "EARNING_ALREADY_LINKED"
	EarningContractMismatchError ErrorType = "EARNING_CONTRACT_MISMATCH"
	EarningOutsidePeriodError    ErrorType = "EARNING_OUTSIDE_PERIOD"
	InvalidEarningWindowError    ErrorType = "INVALID_EARNING_WINDOW"
	InvalidStatusTransitionError ErrorType = "INVALID_STATUS_TRANSITION"
	RecalculationError           ErrorType = "RECALCULATION_FAILED"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper constructors for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log the original error but return a sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Settlement/earning linking failures

func EarningNotFound(id string) *AppError {
	return &AppError{
		Type:       EarningNotFoundError,
		Message:    "Earning not found",
		Detail:     fmt.Sprintf("Earning ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func EarningAlreadyLinked(earningID, settlementID string) *AppError {
	return &AppError{
		Type:       EarningAlreadyLinkedError,
		Message:    "Earning is already linked to a settlement",
		Detail:     fmt.Sprintf("Earning %s is linked to settlement %s", earningID, settlementID),
		HTTPStatus: http.StatusConflict,
	}
}

func EarningContractMismatch(earningID, contractID string) *AppError {
	return &AppError{
		Type:       EarningContractMismatchError,
		Message:    "Earning belongs to a different contract",
		Detail:     fmt.Sprintf("Earning %s does not belong to contract %s", earningID, contractID),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func EarningOutsidePeriod(earningID string) *AppError {
	return &AppError{
		Type:       EarningOutsidePeriodError,
		Message:    "Earning week falls outside the settlement period",
		Detail:     fmt.Sprintf("Earning ID: %s", earningID),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func InvalidEarningWindow(detail string) *AppError {
	return &AppError{
		Type:       InvalidEarningWindowError,
		Message:    "Earning week end must be after week start",
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

func InvalidStatusTransition(current, next string) *AppError {
	return &AppError{
		Type:       InvalidStatusTransitionError,
		Message:    "Invalid status transition",
		Detail:     fmt.Sprintf("Cannot transition from %s to %s", current, next),
		HTTPStatus: http.StatusBadRequest,
	}
}

// RecalculationFailed marks the post-commit totals recomputation failure.
// The settlement and its earnings are durably committed at this point; only
// the derived totals may be stale, so callers get the settlement id back.
func RecalculationFailed(settlementID string, err error) *AppError {
	logger.GetLogger().Errorw("Settlement totals recalculation failed after commit",
		"settlementId", settlementID, "error", err)
	return &AppError{
		Type:       RecalculationError,
		Message:    "Settlement created but totals could not be recalculated",
		Detail:     fmt.Sprintf("Settlement ID: %s", settlementID),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, InvalidStatusTransitionError, InvalidEarningWindowError:
		return http.StatusBadRequest
	case NotFoundError, EarningNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case ConflictError, EarningAlreadyLinkedError:
		return http.StatusConflict
	case EarningContractMismatchError, EarningOutsidePeriodError:
		return http.StatusUnprocessableEntity
	case DatabaseError, ServerError, RecalculationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
