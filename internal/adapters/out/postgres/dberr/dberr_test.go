package dberr_test

import (
	"errors"
	"testing"

	"dispatch/internal/adapters/out/postgres/dberr"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNotFound(t *testing.T) {
	err := dberr.NotFound(gorm.ErrRecordNotFound, "order", "42")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, dberr.NotFound(other, "order", "42"))
}

func TestDuplicate(t *testing.T) {
	err := dberr.Duplicate(gorm.ErrDuplicatedKey, "cylinder", "SN-0001")
	assert.ErrorIs(t, err, errs.ErrConflict)

	assert.NoError(t, dberr.Duplicate(nil, "cylinder", "SN-0001"))
}
