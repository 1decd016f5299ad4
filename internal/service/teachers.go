package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// AddTeacher создаёт преподавателя со свежим ID
func (s *ScheduleService) AddTeacher(ctx context.Context, form Form) (model.Teacher, error) {
	var teacher model.Teacher

	err := s.run(ctx, "add_teacher", func(ctx context.Context) error {
		input := TeacherInput{Name: form.Get(FieldName)}
		if err := s.validate.check(input, "Name is required"); err != nil {
			return err
		}

		teacher = model.Teacher{ID: s.newID(), Name: input.Name}
		return s.store.Teachers().Put(ctx, teacher)
	})
	if err != nil {
		s.logger.Warn("Failed to add teacher", zap.Error(err))
		return model.Teacher{}, fmt.Errorf("add teacher: %w", err)
	}

	s.logger.Info("Teacher added",
		zap.String("teacher_id", teacher.ID),
		zap.String("name", teacher.Name))

	s.notifier.Notify(ctx, notify.ScopeTeachers)
	return teacher, nil
}

// DeleteTeacher удаляет преподавателя вместе с его курсами и их занятиями.
// Всё удаляется в одной транзакции: сначала занятия, затем курсы, затем преподаватель.
func (s *ScheduleService) DeleteTeacher(ctx context.Context, id string) error {
	var removedCourses, removedItems int

	err := s.run(ctx, "delete_teacher", func(ctx context.Context) error {
		if err := requireID(id); err != nil {
			return err
		}

		return s.store.RunInTransaction(ctx, func(tx repository.Tx) error {
			if _, err := tx.Teachers().Get(ctx, id); err != nil {
				return err
			}

			courses, err := tx.Courses().List(ctx)
			if err != nil {
				return err
			}
			courseIDs := make(map[string]struct{})
			for _, course := range courses {
				if course.TeacherID == id {
					courseIDs[course.ID] = struct{}{}
				}
			}

			removedItems, err = deleteItemsOfCourses(ctx, tx, courseIDs)
			if err != nil {
				return err
			}

			for courseID := range courseIDs {
				if err := tx.Courses().Delete(ctx, courseID); err != nil {
					return err
				}
			}
			removedCourses = len(courseIDs)

			return tx.Teachers().Delete(ctx, id)
		})
	})
	if err != nil {
		s.logger.Warn("Failed to delete teacher", zap.String("teacher_id", id), zap.Error(err))
		return fmt.Errorf("delete teacher: %w", err)
	}

	s.logger.Info("Teacher deleted",
		zap.String("teacher_id", id),
		zap.Int("courses_removed", removedCourses),
		zap.Int("schedule_items_removed", removedItems))

	scope := notify.ScopeTeachers
	if removedCourses > 0 {
		scope |= notify.ScopeCourses
	}
	if removedItems > 0 {
		scope |= notify.ScopeSchedule
	}
	s.notifier.Notify(ctx, scope)
	return nil
}

// deleteItemsOfCourses удаляет занятия, ссылающиеся на любой из courseIDs
func deleteItemsOfCourses(ctx context.Context, tx repository.Tx, courseIDs map[string]struct{}) (int, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}

	items, err := tx.ScheduleItems().List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, item := range items {
		if _, ok := courseIDs[item.CourseID]; !ok {
			continue
		}
		if err := tx.ScheduleItems().Delete(ctx, item.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
