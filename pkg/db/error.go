package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// DuplicateConstraint reports which constraint a duplicate-key error names,
// so callers can translate it into the right conflict error.
func DuplicateConstraint(err error) string {
	if !IsDuplicateKeyErr(err) {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{"unique constraint \"", "UNIQUE constraint failed: ", "for key '"} {
		if idx := strings.Index(msg, marker); idx >= 0 {
			rest := msg[idx+len(marker):]
			if end := strings.IndexAny(rest, "\"'\n"); end >= 0 {
				return rest[:end]
			}
			return rest
		}
	}
	return msg
}
