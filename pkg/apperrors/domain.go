package apperrors

import "net/http"

// Factories and predefined variables for domain errors shared across
// services. One-off errors stay close to the service that raises them.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and
// friends) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is raised when an operation is not legal in the
// entity's current lifecycle state.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- payments ---

// ErrSignatureMismatch is returned when the gateway callback signature
// does not verify against the key secret. The message is surfaced to the
// caller verbatim.
var ErrSignatureMismatch = New(
	CodeConflict,
	"payment",
	"Signature mismatch",
	http.StatusBadRequest,
)

var ErrGatewayUnavailable = New(
	CodeExternalServiceError,
	"payment",
	"Payment gateway error",
	http.StatusServiceUnavailable,
)

var ErrOrderNotPayable = New(
	CodeInvalidStatus,
	"payment",
	"Order is not awaiting payment",
	http.StatusConflict,
)

// --- ratings ---

var ErrAlreadyRated = New(
	CodeAlreadyExists,
	"rating",
	"Order has already been rated",
	http.StatusConflict,
)

var ErrRatingRequired = New(
	CodeInvalidOperation,
	"download",
	"Order must be rated before download",
	http.StatusForbidden,
)

// --- kyc ---

var ErrKYCNotVerified = New(
	CodeInvalidStatus,
	"kyc",
	"Editor KYC verification is required before payout",
	http.StatusConflict,
)
