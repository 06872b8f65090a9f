package repository

import (
	"errors"

	"gorm.io/gorm"
)

var errInvalidAffectedRows = errors.New("the number of affected rows is invalid")

// checkAffectedRows maps a single-row write which touched nothing to
// gorm.ErrRecordNotFound.
func checkAffectedRows(tx *gorm.DB) error {
	if tx.RowsAffected > 1 {
		return errInvalidAffectedRows
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
