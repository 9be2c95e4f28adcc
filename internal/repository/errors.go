package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrDependencyExists     = errors.New("record is still referenced by other records")
	ErrDuplicateAdmissionNo = errors.New("a learner with this admission number already exists")
	ErrDuplicateEmail       = errors.New("a staff account with this email already exists")
	ErrDuplicateVehicleNo   = errors.New("a vehicle with this registration already exists")
	ErrDuplicateRouteName   = errors.New("a route with this name already exists")
	ErrDuplicateArea        = errors.New("this area already exists on the route")
	ErrDuplicateGrade       = errors.New("this grade or stream already exists")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates driver errors into repository sentinels. dup is
// returned for unique violations.
func mapError(err error, dup error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if dup != nil {
				return dup
			}
		case pgForeignKeyViolation:
			return ErrDependencyExists
		}
	}
	return err
}

// expectOne reports ErrNotFound when a write touched no rows.
func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
