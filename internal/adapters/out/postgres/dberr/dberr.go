// Package dberr maps GORM errors onto the domain error family.
// The connection must be opened with gorm.Config{TranslateError: true}
// for unique violations to surface as gorm.ErrDuplicatedKey.
package dberr

import (
	"errors"

	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// NotFound turns gorm.ErrRecordNotFound into an errs.ObjectNotFoundError.
func NotFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(entity, id)
	}
	return err
}

// Duplicate turns a unique violation into an errs.ConflictError.
func Duplicate(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictErrorWithCause(entity, id, err)
	}
	return err
}
