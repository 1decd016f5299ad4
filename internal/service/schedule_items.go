package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
)

// AddScheduleItem ставит курс в расписание аудитории.
// Пересечения по времени и порядок начала/конца не проверяются.
func (s *ScheduleService) AddScheduleItem(ctx context.Context, form Form) (model.ScheduleItem, error) {
	var item model.ScheduleItem

	err := s.run(ctx, "add_schedule_item", func(ctx context.Context) error {
		input := ScheduleItemInput{
			Day:       form.Get(FieldDay),
			StartTime: form.Get(FieldStartTime),
			EndTime:   form.Get(FieldEndTime),
			CourseID:  form.Get(FieldCourseID),
			ClassID:   form.Get(FieldClassID),
		}
		if err := s.validate.check(input, "All fields are required"); err != nil {
			return err
		}

		item = model.ScheduleItem{
			ID:        s.newID(),
			Day:       model.Day(input.Day),
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			CourseID:  input.CourseID,
			ClassID:   input.ClassID,
		}
		return s.store.RunInTransaction(ctx, func(tx repository.Tx) error {
			if _, err := tx.Courses().Get(ctx, item.CourseID); err != nil {
				return lookupError("course", item.CourseID, err)
			}
			if _, err := tx.Classes().Get(ctx, item.ClassID); err != nil {
				return lookupError("class", item.ClassID, err)
			}
			return tx.ScheduleItems().Put(ctx, item)
		})
	})
	if err != nil {
		s.logger.Warn("Failed to add schedule item", zap.Error(err))
		return model.ScheduleItem{}, fmt.Errorf("add schedule item: %w", err)
	}

	s.logger.Info("Schedule item added",
		zap.String("schedule_item_id", item.ID),
		zap.String("day", string(item.Day)),
		zap.String("start_time", item.StartTime),
		zap.String("end_time", item.EndTime),
		zap.String("course_id", item.CourseID),
		zap.String("class_id", item.ClassID))

	s.notifier.Notify(ctx, notify.ScopeSchedule)
	return item, nil
}

// DeleteScheduleItem удаляет одно занятие
func (s *ScheduleService) DeleteScheduleItem(ctx context.Context, id string) error {
	err := s.run(ctx, "delete_schedule_item", func(ctx context.Context) error {
		if err := requireID(id); err != nil {
			return err
		}
		return s.store.ScheduleItems().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Warn("Failed to delete schedule item", zap.String("schedule_item_id", id), zap.Error(err))
		return fmt.Errorf("delete schedule item: %w", err)
	}

	s.logger.Info("Schedule item deleted", zap.String("schedule_item_id", id))

	s.notifier.Notify(ctx, notify.ScopeSchedule)
	return nil
}
