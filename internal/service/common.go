package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aularium-api/internal/models"
	appErrors "github.com/noah-isme/aularium-api/pkg/errors"
)

// txRunner runs a unit of work in one store transaction.
type txRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx sqlx.ExtContext) error) error
}

func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// lookupError maps sql.ErrNoRows to NOT_FOUND and anything else to INTERNAL_ERROR.
func lookupError(err error, entity string) *appErrors.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return internalError(err, "failed to load "+entity)
}

// passThrough keeps typed errors raised inside a transaction intact.
func passThrough(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return internalError(err, message)
}

func checkPeriod(period models.PeriodID) error {
	if !period.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}
	return nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

func conflictError(conflict *models.Conflict) *appErrors.Error {
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrScheduleConflict, conflict.Message), conflict)
}

func roomOccupiedError(occupied *models.RoomOccupiedError) *appErrors.Error {
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrRoomOccupied, occupied.Error()), occupied)
}
