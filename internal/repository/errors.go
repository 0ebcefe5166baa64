package repository

import (
	"errors"

	"citycut/internal/apierror"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// classify tags a store error with its apierror.Kind. nil stays nil.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.E(apierror.KindNotFound, op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return apierror.E(apierror.KindConstraintViolation, op, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apierror.E(apierror.KindConstraintViolation, op, err)
	}
	return apierror.E(apierror.KindUnknown, op, err)
}

// affected turns a write that touched no rows into NotFound.
func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.E(apierror.KindNotFound, op, gorm.ErrRecordNotFound)
	}
	return nil
}

// conn picks the transaction handle when one is supplied.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
