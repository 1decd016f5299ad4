package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// AddCourse создаёт курс; преподаватель teacherId должен существовать
func (s *ScheduleService) AddCourse(ctx context.Context, form Form) (model.Course, error) {
	var course model.Course

	err := s.run(ctx, "add_course", func(ctx context.Context) error {
		input := CourseInput{
			Name:      form.Get(FieldName),
			TeacherID: form.Get(FieldTeacherID),
		}
		if err := s.validate.check(input, "Name and teacher are required"); err != nil {
			return err
		}

		course = model.Course{ID: s.newID(), Name: input.Name, TeacherID: input.TeacherID}
		return s.store.RunInTransaction(ctx, func(tx repository.Tx) error {
			if _, err := tx.Teachers().Get(ctx, course.TeacherID); err != nil {
				return lookupError("teacher", course.TeacherID, err)
			}
			return tx.Courses().Put(ctx, course)
		})
	})
	if err != nil {
		s.logger.Warn("Failed to add course", zap.Error(err))
		return model.Course{}, fmt.Errorf("add course: %w", err)
	}

	s.logger.Info("Course added",
		zap.String("course_id", course.ID),
		zap.String("name", course.Name),
		zap.String("teacher_id", course.TeacherID))

	s.notifier.Notify(ctx, notify.ScopeCourses)
	return course, nil
}

// DeleteCourse удаляет курс и все его занятия в одной транзакции
func (s *ScheduleService) DeleteCourse(ctx context.Context, id string) error {
	var removedItems int

	err := s.run(ctx, "delete_course", func(ctx context.Context) error {
		if err := requireID(id); err != nil {
			return err
		}

		return s.store.RunInTransaction(ctx, func(tx repository.Tx) error {
			if _, err := tx.Courses().Get(ctx, id); err != nil {
				return err
			}

			var err error
			removedItems, err = deleteItemsOfCourses(ctx, tx, map[string]struct{}{id: {}})
			if err != nil {
				return err
			}

			return tx.Courses().Delete(ctx, id)
		})
	})
	if err != nil {
		s.logger.Warn("Failed to delete course", zap.String("course_id", id), zap.Error(err))
		return fmt.Errorf("delete course: %w", err)
	}

	s.logger.Info("Course deleted",
		zap.String("course_id", id),
		zap.Int("schedule_items_removed", removedItems))

	scope := notify.ScopeCourses
	if removedItems > 0 {
		scope |= notify.ScopeSchedule
	}
	s.notifier.Notify(ctx, scope)
	return nil
}
