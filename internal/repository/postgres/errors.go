package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// Коды ошибок Postgres, которые переводятся в ошибки модели
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeAdminShutdown        = "57P01"
	classConnectionException = "08"
)

// translateError переводит ошибку pgx в таксономию model
func translateError(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return repository.NotFound(collection, id)
	case errors.As(err, &pgErr):
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s %s %q: %w", op, collection, id, model.ErrDuplicateKey)
		case pgErr.Code == codeForeignKeyViolation:
			return fmt.Errorf("%s %s %q: %w: %s", op, collection, id, model.ErrReference, pgErr.ConstraintName)
		case pgErr.Code == codeSerializationFailure,
			pgErr.Code == codeAdminShutdown,
			strings.HasPrefix(pgErr.Code, classConnectionException):
			return fmt.Errorf("%s %s: %w: %v", op, collection, model.ErrStoreUnavailable, err)
		}
	case errors.As(err, &connErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		pgconn.Timeout(err):
		return fmt.Errorf("%s %s: %w: %v", op, collection, model.ErrStoreUnavailable, err)
	}

	return fmt.Errorf("%s %s: %w", op, collection, err)
}
