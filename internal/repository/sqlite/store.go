// Package sqlite встраиваемое хранилище сущностей на gorm + SQLite.
// Подходит для запуска без Postgres: данные переживают перезапуск процесса.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store реализация repository.Store поверх *gorm.DB
type Store struct {
	db     *gorm.DB
	inTx   bool
	logger *zap.Logger
}

// Open открывает (или создаёт) файл базы и применяет AutoMigrate
func Open(path string, log *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// SQLite допускает одного писателя; одно соединение сериализует транзакции
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Teacher{}, &model.Course{}, &model.Class{}, &model.ScheduleItem{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("SQLite store opened", zap.String("path", path))

	return &Store{db: db, logger: log}, nil
}

// RunInTransaction выполняет fn в транзакции gorm; вложенный вызов переиспользует текущую
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	if s.inTx {
		return fn(s)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true, logger: s.logger})
	})
	if err != nil {
		return translateError("transaction", "database", "", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translateError("ping", "database", "", err)
	}
	return translateError("ping", "database", "", sqlDB.PingContext(ctx))
}

func (s *Store) Close() error {
	if s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Teachers() repository.Collection[model.Teacher] {
	return &collection[model.Teacher]{db: s.db, name: repository.CollectionTeachers}
}

func (s *Store) Courses() repository.Collection[model.Course] {
	return &collection[model.Course]{db: s.db, name: repository.CollectionCourses}
}

func (s *Store) Classes() repository.Collection[model.Class] {
	return &collection[model.Class]{db: s.db, name: repository.CollectionClasses}
}

func (s *Store) ScheduleItems() repository.Collection[model.ScheduleItem] {
	return &collection[model.ScheduleItem]{db: s.db, name: repository.CollectionScheduleItems}
}

type collection[T model.Entity] struct {
	db   *gorm.DB
	name string
}

func (c *collection[T]) Put(ctx context.Context, entity T) error {
	err := c.db.WithContext(ctx).Create(&entity).Error
	return translateError("put", c.name, entity.EntityID(), err)
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T
	err := c.db.WithContext(ctx).Where("id = ?", id).Take(&entity).Error
	if err != nil {
		var zero T
		return zero, translateError("get", c.name, id, err)
	}
	return entity, nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	entities := make([]T, 0)
	err := c.db.WithContext(ctx).Order("rowid").Find(&entities).Error
	if err != nil {
		return nil, translateError("list", c.name, "", err)
	}
	return entities, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translateError("delete", c.name, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.NotFound(c.name, id)
	}
	return nil
}

// translateError переводит ошибки gorm/sqlite в таксономию model
func translateError(op, collection, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.NotFound(collection, id)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s %s %q: %w", op, collection, id, model.ErrDuplicateKey)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s %s %q: %w", op, collection, id, model.ErrReference)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		strings.Contains(err.Error(), "database is locked"),
		strings.Contains(err.Error(), "sql: database is closed"):
		return fmt.Errorf("%s %s: %w: %v", op, collection, model.ErrStoreUnavailable, err)
	}

	// ошибки уже переведённые внутри транзакции пропускаем как есть
	var nfErr *model.NotFoundError
	var vErr *model.ValidationError
	if errors.As(err, &nfErr) || errors.As(err, &vErr) ||
		errors.Is(err, model.ErrDuplicateKey) || errors.Is(err, model.ErrReference) ||
		errors.Is(err, model.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}
