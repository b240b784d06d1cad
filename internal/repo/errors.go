package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that an insert hit a unique index (a relation row,
// an idempotency record, or a unique business key such as a tag slug).
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a unique-constraint failure.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations,
// and PostgreSQL reports SQLSTATE 23505 unless TranslateError is enabled.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key") ||
		strings.Contains(low, "sqlstate 23505")
}

// isCheckViolation reports whether err is a CHECK-constraint failure.
func isCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "check constraint failed") ||
		strings.Contains(low, "constraint failed: check") ||
		strings.Contains(low, "violates check constraint")
}
