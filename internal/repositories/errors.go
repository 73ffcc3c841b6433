package repositories

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)

// Postgres error codes mapped onto the sentinels above.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// validUUID screens caller-supplied ids before they reach the uuid codec.
// An id that cannot be a uuid can never match a row, so repositories treat
// it like a missing record instead of surfacing an encode error.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
