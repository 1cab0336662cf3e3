package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// IsUniqueViolation recognises Postgres 23505 and the SQLite equivalent.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
