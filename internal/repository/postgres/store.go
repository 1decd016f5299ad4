// Package postgres хранилище сущностей расписания в Postgres поверх pgx
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store реализация repository.Store. Внутри транзакции db указывает на pgx.Tx
type Store struct {
	pool   *pgxpool.Pool
	db     DB
	inTx   bool
	logger *zap.Logger
}

// Connect создаёт пул соединений и проверяет доступность базы
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, translateError("ping", "database", "", err)
	}

	return NewStore(pool, logger), nil
}

// NewStore оборачивает уже созданный пул
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		pool:   pool,
		db:     pool,
		logger: logger,
	}
}

// Pool возвращает пул соединений (нужен мигратору)
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// RunInTransaction выполняет fn в транзакции REPEATABLE READ.
// Вложенный вызов переиспользует текущую транзакцию.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	if s.inTx {
		return fn(s)
	}

	// Начинаем транзакцию
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return translateError("begin", "transaction", "", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	txStore := &Store{
		pool:   s.pool,
		db:     tx,
		inTx:   true,
		logger: s.logger,
	}
	if err := fn(txStore); err != nil {
		return err
	}

	// Коммитим транзакцию
	if err := tx.Commit(ctx); err != nil {
		return translateError("commit", "transaction", "", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return translateError("ping", "database", "", s.pool.Ping(ctx))
}

// Close закрывает пул; для транзакционной копии ничего не делает
func (s *Store) Close() error {
	if !s.inTx {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Teachers() repository.Collection[model.Teacher] {
	return &collection[model.Teacher]{db: s.db, table: teachersTable, logger: s.logger}
}

func (s *Store) Courses() repository.Collection[model.Course] {
	return &collection[model.Course]{db: s.db, table: coursesTable, logger: s.logger}
}

func (s *Store) Classes() repository.Collection[model.Class] {
	return &collection[model.Class]{db: s.db, table: classesTable, logger: s.logger}
}

func (s *Store) ScheduleItems() repository.Collection[model.ScheduleItem] {
	return &collection[model.ScheduleItem]{db: s.db, table: scheduleItemsTable, logger: s.logger}
}
