package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned by versioned updates when the row changed since
// it was read.
var ErrStaleVersion = errors.New("record was modified concurrently")

// IsNotFound reports whether err is GORM's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsStale reports whether err is a lost compare-and-swap.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleVersion)
}
