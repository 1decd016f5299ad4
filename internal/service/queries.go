package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// GetSchedule возвращает занятия в порядке добавления с подставленными именами.
// Все четыре коллекции читаются в одной транзакции; ссылки, которые не удалось
// разрешить, отображаются заглушками Unknown Teacher/Course/Class.
// При сбое хранилища возвращается пустой список.
func (s *ScheduleService) GetSchedule(ctx context.Context) []model.ScheduleEntry {
	var entries []model.ScheduleEntry

	err := s.run(ctx, "get_schedule", func(ctx context.Context) error {
		return s.store.RunInTransaction(ctx, func(tx repository.Tx) error {
			items, err := tx.ScheduleItems().List(ctx)
			if err != nil {
				return err
			}
			courses, err := tx.Courses().List(ctx)
			if err != nil {
				return err
			}
			teachers, err := tx.Teachers().List(ctx)
			if err != nil {
				return err
			}
			classes, err := tx.Classes().List(ctx)
			if err != nil {
				return err
			}

			entries = joinSchedule(items, courses, teachers, classes)
			return nil
		})
	})
	if err != nil {
		s.logger.Error("Failed to load schedule", zap.Error(err))
		return []model.ScheduleEntry{}
	}

	return entries
}

func joinSchedule(items []model.ScheduleItem, courses []model.Course, teachers []model.Teacher, classes []model.Class) []model.ScheduleEntry {
	courseByID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	teacherByID := make(map[string]model.Teacher, len(teachers))
	for _, t := range teachers {
		teacherByID[t.ID] = t
	}
	classByID := make(map[string]model.Class, len(classes))
	for _, c := range classes {
		classByID[c.ID] = c
	}

	entries := make([]model.ScheduleEntry, 0, len(items))
	for _, item := range items {
		entry := model.ScheduleEntry{
			ID:        item.ID,
			Day:       item.Day,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			CourseID:  item.CourseID,
			ClassID:   item.ClassID,
			Course:    model.UnknownCourse,
			Teacher:   model.UnknownTeacher,
			Class:     model.UnknownClass,
		}

		// преподаватель ищется только через курс
		if course, ok := courseByID[item.CourseID]; ok {
			entry.Course = course.Name
			if teacher, ok := teacherByID[course.TeacherID]; ok {
				entry.Teacher = teacher.Name
			}
		}
		if class, ok := classByID[item.ClassID]; ok {
			entry.Class = class.Label()
		}

		entries = append(entries, entry)
	}
	return entries
}

func (s *ScheduleService) GetTeachers(ctx context.Context) []model.Teacher {
	return listOrEmpty(ctx, s, "get_teachers", s.store.Teachers())
}

func (s *ScheduleService) GetCourses(ctx context.Context) []model.Course {
	return listOrEmpty(ctx, s, "get_courses", s.store.Courses())
}

func (s *ScheduleService) GetClasses(ctx context.Context) []model.Class {
	return listOrEmpty(ctx, s, "get_classes", s.store.Classes())
}

func (s *ScheduleService) GetScheduleItems(ctx context.Context) []model.ScheduleItem {
	return listOrEmpty(ctx, s, "get_schedule_items", s.store.ScheduleItems())
}

// Ping проверяет доступность хранилища
func (s *ScheduleService) Ping(ctx context.Context) error {
	return s.run(ctx, "ping", s.store.Ping)
}

func listOrEmpty[T model.Entity](ctx context.Context, s *ScheduleService, op string, coll repository.Collection[T]) []T {
	var rows []T

	err := s.run(ctx, op, func(ctx context.Context) error {
		var err error
		rows, err = coll.List(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to list records", zap.String("operation", op), zap.Error(err))
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}
