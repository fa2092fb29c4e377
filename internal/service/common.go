package service

import (
	"errors"

	"go-bookstore-api/internal/apperr"

	"gorm.io/gorm"
)

// storageErr converts unexpected driver failures into PersistenceError while
// letting the taxonomy's own kinds pass through untouched. Engine operations
// report every failure as exactly one taxonomy kind.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrPersistence):
		return err
	}
	return apperr.Persistence(err)
}

// notFoundOr maps gorm's record-not-found onto the taxonomy, leaving other
// errors to storageErr.
func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return storageErr(err)
}
