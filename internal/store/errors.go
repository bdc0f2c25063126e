package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound covers both a genuinely absent row and an owner-scoped
	// lookup that matched somebody else's resource.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail maps the users.email unique violation.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike, so login failures never confirm an account exists.
	ErrInvalidCredentials = errors.New("Unable to login!")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
