package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"resort/internal/domain/availability"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeExclusionViolation  = "23P01"
)

// ErrInUse is returned when a row is still referenced by another table.
var ErrInUse = errors.New("postgres: record is still referenced")

// translate maps driver errors to domain sentinels. notFound and duplicate
// are the sentinels of the calling repository; either may be nil.
func translate(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if duplicate != nil {
				return duplicate
			}
		case codeExclusionViolation:
			return availability.ErrUnavailable
		case codeForeignKeyViolation:
			return ErrInUse
		}
	}
	return err
}

// affected returns notFound when a write touched no rows.
func affected(res *gorm.DB, notFound, duplicate error) error {
	if res.Error != nil {
		return translate(res.Error, notFound, duplicate)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
