package postgres

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// tableDef описывает отображение сущности на таблицу
type tableDef[T model.Entity] struct {
	name    string
	columns []string
	values  func(entity T) []any
	scan    func(row scanner) (T, error)
}

var teachersTable = tableDef[model.Teacher]{
	name:    repository.CollectionTeachers,
	columns: []string{"id", "name"},
	values:  func(t model.Teacher) []any { return []any{t.ID, t.Name} },
	scan: func(row scanner) (model.Teacher, error) {
		var t model.Teacher
		err := row.Scan(&t.ID, &t.Name)
		return t, err
	},
}

var coursesTable = tableDef[model.Course]{
	name:    repository.CollectionCourses,
	columns: []string{"id", "name", "teacher_id"},
	values:  func(c model.Course) []any { return []any{c.ID, c.Name, c.TeacherID} },
	scan: func(row scanner) (model.Course, error) {
		var c model.Course
		err := row.Scan(&c.ID, &c.Name, &c.TeacherID)
		return c, err
	},
}

var classesTable = tableDef[model.Class]{
	name:    repository.CollectionClasses,
	columns: []string{"id", "name", "room_number"},
	values:  func(c model.Class) []any { return []any{c.ID, c.Name, c.RoomNumber} },
	scan: func(row scanner) (model.Class, error) {
		var c model.Class
		err := row.Scan(&c.ID, &c.Name, &c.RoomNumber)
		return c, err
	},
}

var scheduleItemsTable = tableDef[model.ScheduleItem]{
	name:    repository.CollectionScheduleItems,
	columns: []string{"id", "day", "start_time", "end_time", "course_id", "class_id"},
	values: func(s model.ScheduleItem) []any {
		return []any{s.ID, string(s.Day), s.StartTime, s.EndTime, s.CourseID, s.ClassID}
	},
	scan: func(row scanner) (model.ScheduleItem, error) {
		var s model.ScheduleItem
		var day string
		err := row.Scan(&s.ID, &day, &s.StartTime, &s.EndTime, &s.CourseID, &s.ClassID)
		s.Day = model.Day(day)
		return s, err
	},
}

func (t tableDef[T]) insertQuery() string {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
}

func (t tableDef[T]) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.columns, ", "), t.name)
}

// collection реализация repository.Collection поверх одной таблицы
type collection[T model.Entity] struct {
	db     DB
	table  tableDef[T]
	logger *zap.Logger
}

func (c *collection[T]) Put(ctx context.Context, entity T) error {
	_, err := c.db.Exec(ctx, c.table.insertQuery(), c.table.values(entity)...)
	if err != nil {
		c.logger.Error("Failed to insert row",
			zap.String("table", c.table.name),
			zap.String("id", entity.EntityID()),
			zap.Error(err))
		return translateError("put", c.table.name, entity.EntityID(), err)
	}

	c.logger.Debug("Row inserted",
		zap.String("table", c.table.name),
		zap.String("id", entity.EntityID()))

	return nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, error) {
	query := c.table.selectQuery() + " WHERE id = $1"

	entity, err := c.table.scan(c.db.QueryRow(ctx, query, id))
	if err != nil {
		var zero T
		return zero, translateError("get", c.table.name, id, err)
	}
	return entity, nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	query := c.table.selectQuery() + " ORDER BY seq"

	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return nil, translateError("list", c.table.name, "", err)
	}
	defer rows.Close()

	entities := make([]T, 0)
	for rows.Next() {
		entity, err := c.table.scan(rows)
		if err != nil {
			return nil, translateError("scan", c.table.name, "", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list", c.table.name, "", err)
	}

	return entities, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.table.name)

	affected, err := execAffected(ctx, c.db, query, id)
	if err != nil {
		return translateError("delete", c.table.name, id, err)
	}
	if affected == 0 {
		return repository.NotFound(c.table.name, id)
	}

	c.logger.Debug("Row deleted",
		zap.String("table", c.table.name),
		zap.String("id", id))

	return nil
}
