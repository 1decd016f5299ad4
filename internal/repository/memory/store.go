// Package memory хранит сущности в памяти процесса. Данные теряются при перезапуске,
// поэтому используется в тестах и для локального запуска без базы.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// table записи одной коллекции с сохранением порядка вставки
type table[T model.Entity] struct {
	rows  map[string]T
	order []string
}

func newTable[T model.Entity]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) clone() *table[T] {
	cp := &table[T]{
		rows:  make(map[string]T, len(t.rows)),
		order: make([]string, len(t.order)),
	}
	for id, row := range t.rows {
		cp.rows[id] = row
	}
	copy(cp.order, t.order)
	return cp
}

type state struct {
	teachers      *table[model.Teacher]
	courses       *table[model.Course]
	classes       *table[model.Class]
	scheduleItems *table[model.ScheduleItem]
}

func newState() *state {
	return &state{
		teachers:      newTable[model.Teacher](),
		courses:       newTable[model.Course](),
		classes:       newTable[model.Class](),
		scheduleItems: newTable[model.ScheduleItem](),
	}
}

func (s *state) clone() *state {
	return &state{
		teachers:      s.teachers.clone(),
		courses:       s.courses.clone(),
		classes:       s.classes.clone(),
		scheduleItems: s.scheduleItems.clone(),
	}
}

// Store in-memory реализация repository.Store
type Store struct {
	mu     sync.RWMutex
	state  *state
	closed bool
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{state: newState()}
}

// RunInTransaction выполняет fn над копией состояния и подменяет состояние только при успехе.
// Всё время транзакции хранилище заблокировано на запись.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w: %v", model.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("begin transaction: %w", model.ErrStoreUnavailable)
	}

	working := s.state.clone()
	if err := fn(&txView{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.ErrStoreUnavailable
	}
	return ctx.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) Teachers() repository.Collection[model.Teacher] {
	return &collection[model.Teacher]{
		name:  repository.CollectionTeachers,
		guard: s,
		table: func() *table[model.Teacher] { return s.state.teachers },
	}
}

func (s *Store) Courses() repository.Collection[model.Course] {
	return &collection[model.Course]{
		name:  repository.CollectionCourses,
		guard: s,
		table: func() *table[model.Course] { return s.state.courses },
	}
}

func (s *Store) Classes() repository.Collection[model.Class] {
	return &collection[model.Class]{
		name:  repository.CollectionClasses,
		guard: s,
		table: func() *table[model.Class] { return s.state.classes },
	}
}

func (s *Store) ScheduleItems() repository.Collection[model.ScheduleItem] {
	return &collection[model.ScheduleItem]{
		name:  repository.CollectionScheduleItems,
		guard: s,
		table: func() *table[model.ScheduleItem] { return s.state.scheduleItems },
	}
}

// lock захватывает мьютекс хранилища для одиночной операции вне транзакции
func (s *Store) lock(write bool) (func(), error) {
	if write {
		s.mu.Lock()
	} else {
		s.mu.RLock()
	}
	unlock := s.mu.Unlock
	if !write {
		unlock = s.mu.RUnlock
	}
	if s.closed {
		unlock()
		return nil, model.ErrStoreUnavailable
	}
	return unlock, nil
}

// txView коллекции рабочей копии состояния; мьютекс уже удерживает RunInTransaction
type txView struct {
	state *state
}

func (v *txView) lock(bool) (func(), error) { return func() {}, nil }

func (v *txView) Teachers() repository.Collection[model.Teacher] {
	return &collection[model.Teacher]{
		name:  repository.CollectionTeachers,
		guard: v,
		table: func() *table[model.Teacher] { return v.state.teachers },
	}
}

func (v *txView) Courses() repository.Collection[model.Course] {
	return &collection[model.Course]{
		name:  repository.CollectionCourses,
		guard: v,
		table: func() *table[model.Course] { return v.state.courses },
	}
}

func (v *txView) Classes() repository.Collection[model.Class] {
	return &collection[model.Class]{
		name:  repository.CollectionClasses,
		guard: v,
		table: func() *table[model.Class] { return v.state.classes },
	}
}

func (v *txView) ScheduleItems() repository.Collection[model.ScheduleItem] {
	return &collection[model.ScheduleItem]{
		name:  repository.CollectionScheduleItems,
		guard: v,
		table: func() *table[model.ScheduleItem] { return v.state.scheduleItems },
	}
}

type guard interface {
	lock(write bool) (func(), error)
}

type collection[T model.Entity] struct {
	name  string
	guard guard
	table func() *table[T]
}

func (c *collection[T]) Put(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put %s: %w: %v", c.name, model.ErrStoreUnavailable, err)
	}
	unlock, err := c.guard.lock(true)
	if err != nil {
		return fmt.Errorf("put %s: %w", c.name, err)
	}
	defer unlock()

	tbl := c.table()
	id := entity.EntityID()
	if _, exists := tbl.rows[id]; exists {
		return fmt.Errorf("put %s %q: %w", c.name, id, model.ErrDuplicateKey)
	}
	tbl.rows[id] = entity
	tbl.order = append(tbl.order, id)
	return nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, fmt.Errorf("get %s: %w: %v", c.name, model.ErrStoreUnavailable, err)
	}
	unlock, err := c.guard.lock(false)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", c.name, err)
	}
	defer unlock()

	row, ok := c.table().rows[id]
	if !ok {
		return zero, repository.NotFound(c.name, id)
	}
	return row, nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w: %v", c.name, model.ErrStoreUnavailable, err)
	}
	unlock, err := c.guard.lock(false)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer unlock()

	tbl := c.table()
	out := make([]T, 0, len(tbl.order))
	for _, id := range tbl.order {
		out = append(out, tbl.rows[id])
	}
	return out, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete %s: %w: %v", c.name, model.ErrStoreUnavailable, err)
	}
	unlock, err := c.guard.lock(true)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	defer unlock()

	tbl := c.table()
	if _, ok := tbl.rows[id]; !ok {
		return repository.NotFound(c.name, id)
	}
	delete(tbl.rows, id)
	for i, rowID := range tbl.order {
		if rowID == id {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
	return nil
}
