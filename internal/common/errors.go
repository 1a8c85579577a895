package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel kinds for domain failures. Handlers map these to HTTP status
// codes; the client-facing message travels in DomainError.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrMisconfigured    = errors.New("server misconfigured")
	ErrForbidden        = errors.New("forbidden access")    // role mismatch
	ErrPermissionDenied = errors.New("permission denied")   // ownership mismatch
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrInternal         = errors.New("internal server error")
)

// DomainError is a failure constructed at the point of detection with a
// message safe to show to clients. Only these propagate verbatim; every
// other error is masked behind a generic message by the handler.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

// NewError builds a DomainError of the given kind.
func NewError(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatusFromError maps domain errors to HTTP status codes. Anything
// outside the taxonomy is a 500: unexpected storage errors never pick a
// client-facing status of their own.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrPermissionDenied) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicateEmail) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrMisconfigured) || errors.Is(err, ErrInternal) {
		return http.StatusInternalServerError
	}

	// Unique violations that escaped the repository layer.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
