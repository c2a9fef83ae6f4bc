package apperrors

import "net/http"

// Domain factories and predefined errors shared across services.
//
// Mapping to the error taxonomy: input errors and not-found conditions are
// 4xx, dependency failures (database, cache, spatial index) are 5xx. A
// degraded geocoder result is NOT an error and never passes through here.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrInvalidOperation rejects a request that is well-formed but not allowed.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrDependency marks a data/cache layer failure. The whole operation that
// hit it fails; partial results are never returned.
func ErrDependency(err error, domain, message string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, message, http.StatusServiceUnavailable)
}

// ErrExternalService marks a failure of an outside collaborator that must
// propagate (not the geocoder, which degrades instead).
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

// ErrUserLocationNotSet is returned by the proximity matcher before any
// spatial query is issued when the requester has no stored coordinates.
var ErrUserLocationNotSet = New(
	CodeInvalidOperation,
	"matching",
	"User location not set",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
