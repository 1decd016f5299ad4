// Package repository описывает хранилище сущностей расписания.
// Реализации: memory (тесты и dev), postgres (pgx), sqlite (gorm).
package repository

import (
	"context"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// Имена коллекций; совпадают с именами таблиц в SQL-хранилищах
const (
	CollectionTeachers      = "teachers"
	CollectionCourses       = "courses"
	CollectionClasses       = "classes"
	CollectionScheduleItems = "schedule_items"
)

// Collection ключевое хранилище одного типа сущностей
type Collection[T model.Entity] interface {
	// Put вставляет новую запись; model.ErrDuplicateKey если ID уже занят
	Put(ctx context.Context, entity T) error
	// Get возвращает запись или *model.NotFoundError
	Get(ctx context.Context, id string) (T, error)
	// List возвращает все записи в порядке вставки
	List(ctx context.Context) ([]T, error)
	// Delete удаляет запись или возвращает *model.NotFoundError
	Delete(ctx context.Context, id string) error
}

// Tx набор коллекций, видимых в одной транзакции
type Tx interface {
	Teachers() Collection[model.Teacher]
	Courses() Collection[model.Course]
	Classes() Collection[model.Class]
	ScheduleItems() Collection[model.ScheduleItem]
}

// Store хранилище сущностей. Коллекции самого Store работают вне транзакции,
// RunInTransaction применяет все изменения fn атомарно или не применяет ни одного.
type Store interface {
	Tx
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// EntityName возвращает имя сущности для сообщений об ошибках
func EntityName(collection string) string {
	switch collection {
	case CollectionTeachers:
		return "teacher"
	case CollectionCourses:
		return "course"
	case CollectionClasses:
		return "class"
	case CollectionScheduleItems:
		return "schedule item"
	default:
		return collection
	}
}

// NotFound создаёт ошибку отсутствующей записи коллекции
func NotFound(collection, id string) error {
	return &model.NotFoundError{Entity: EntityName(collection), ID: id}
}
