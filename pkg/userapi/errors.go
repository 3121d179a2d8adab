package userapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of every failure response.
const (
	CodeValidationFailed        = "validation_failed"
	CodeAuthenticationRequired  = "authentication_required"
	CodeInvalidCredentials      = "invalid_credentials"
	CodeInvalidToken            = "invalid_token"
	CodeInvalidCurrentPassword  = "invalid_current_password"
	CodeAccountDeactivated      = "account_deactivated"
	CodeInsufficientPermissions = "insufficient_permissions"
	CodeNotFound                = "not_found"
	CodeDuplicateAccount        = "duplicate_account"
	CodeRateLimited             = "rate_limit_exceeded"
	CodeServerError             = "server_error"
)

// Error is the single structured failure object the service returns. It
// implements the error interface so the server can pass one value from the
// service layer to the wire, and the SDK client can hand the same shape back
// to callers.
type Error struct {
	// StatusCode is the HTTP status class for this failure.
	StatusCode int `json:"-"`

	// Code is the machine-readable error code.
	Code string `json:"error"`

	// Message is a human-readable description. It must never carry internal
	// detail (driver errors, stack traces) in a production posture.
	Message string `json:"error_description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this Error to an HTTP response writer.
func (e *Error) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// WithMessage returns a copy of e carrying a more specific message. The code
// and status class stay fixed so clients can match on them.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{
		StatusCode: e.StatusCode,
		Code:       e.Code,
		Message:    fmt.Sprintf(format, args...),
	}
}

var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = &Error{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidationFailed,
		Message:    "the request is malformed or missing required fields",
	}

	// ErrAuthenticationRequired is returned when no credential was presented
	// on an endpoint that requires one.
	ErrAuthenticationRequired = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeAuthenticationRequired,
		Message:    "authentication required",
	}

	// ErrInvalidCredentials is returned for a failed login. The same value is
	// used whether the email is unknown or the password is wrong, so the
	// response cannot be used to enumerate accounts.
	ErrInvalidCredentials = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeInvalidCredentials,
		Message:    "invalid email or password",
	}

	// ErrInvalidToken is returned when a presented bearer token fails
	// verification for any reason, including expiry.
	ErrInvalidToken = &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeInvalidToken,
		Message:    "the access token is missing, invalid or expired",
	}

	// ErrInvalidCurrentPassword is returned from the change-password flow.
	// Distinct from ErrInvalidCredentials: the caller is already
	// authenticated, so there is nothing to enumerate.
	ErrInvalidCurrentPassword = &Error{
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidCurrentPassword,
		Message:    "current password is incorrect",
	}

	// ErrAccountDeactivated is returned when the account exists but has been
	// suspended. Only surfaced after the presented password verified, or on
	// authenticated requests.
	ErrAccountDeactivated = &Error{
		StatusCode: http.StatusForbidden,
		Code:       CodeAccountDeactivated,
		Message:    "this account has been deactivated",
	}

	// ErrInsufficientPermissions is returned when the authenticated identity
	// lacks the role required for the operation.
	ErrInsufficientPermissions = &Error{
		StatusCode: http.StatusForbidden,
		Code:       CodeInsufficientPermissions,
		Message:    "insufficient permissions for this operation",
	}

	// ErrNotFound is returned when the target account does not exist.
	ErrNotFound = &Error{
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    "account not found",
	}

	// ErrDuplicateAccount is returned when the username or email is already
	// taken by another account.
	ErrDuplicateAccount = &Error{
		StatusCode: http.StatusConflict,
		Code:       CodeDuplicateAccount,
		Message:    "an account with that username or email already exists",
	}

	// ErrServerError is the generic catch-all for unexpected failures.
	ErrServerError = &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeServerError,
		Message:    "internal server error",
	}
)

// FromResponse parses an HTTP failure response into an *Error. Returns nil
// for 2xx responses.
func FromResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var e Error
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		e.StatusCode = statusCode
		return &e
	}

	return &Error{
		StatusCode: statusCode,
		Code:       CodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
	}
}
