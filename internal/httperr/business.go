package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
)

// BusinessError is an expected failure that is safe to show to the caller.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// Is matches on kind and code so errors.Is works despite Details.
func (e BusinessError) Is(target error) bool {
	t, ok := target.(BusinessError)
	return ok && t.Kind == e.Kind && t.Code == e.Code
}

// WithDetails returns a copy carrying extra response fields.
func (e BusinessError) WithDetails(details map[string]any) BusinessError {
	e.Details = details
	return e
}

func Validation(message string) BusinessError {
	return BusinessError{Kind: KindValidation, Code: "validation_error", Message: message}
}

func NotFound(code, message string) BusinessError {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) BusinessError {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) BusinessError {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsExclusionConflict reports a postgres exclusion constraint violation, raised
// when two live appointments of one barber overlap.
func IsExclusionConflict(err error) bool {
	return hasSQLState(err, "23P01")
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
