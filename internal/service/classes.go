package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/model"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
)

// AddClass создаёт аудиторию
func (s *ScheduleService) AddClass(ctx context.Context, form Form) (model.Class, error) {
	var class model.Class

	err := s.run(ctx, "add_class", func(ctx context.Context) error {
		input := ClassInput{
			Name:       form.Get(FieldName),
			RoomNumber: form.Get(FieldRoomNumber),
		}
		if err := s.validate.check(input, "Name and room number are required"); err != nil {
			return err
		}

		class = model.Class{ID: s.newID(), Name: input.Name, RoomNumber: input.RoomNumber}
		return s.store.Classes().Put(ctx, class)
	})
	if err != nil {
		s.logger.Warn("Failed to add class", zap.Error(err))
		return model.Class{}, fmt.Errorf("add class: %w", err)
	}

	s.logger.Info("Class added",
		zap.String("class_id", class.ID),
		zap.String("name", class.Name),
		zap.String("room_number", class.RoomNumber))

	s.notifier.Notify(ctx, notify.ScopeClasses)
	return class, nil
}

// DeleteClass удаляет только аудиторию. Занятия в ней остаются
// и в расписании показываются как "Unknown Class".
func (s *ScheduleService) DeleteClass(ctx context.Context, id string) error {
	err := s.run(ctx, "delete_class", func(ctx context.Context) error {
		if err := requireID(id); err != nil {
			return err
		}
		return s.store.Classes().Delete(ctx, id)
	})
	if err != nil {
		s.logger.Warn("Failed to delete class", zap.String("class_id", id), zap.Error(err))
		return fmt.Errorf("delete class: %w", err)
	}

	s.logger.Info("Class deleted", zap.String("class_id", id))

	// занятия не удалялись, но их отображение изменилось
	s.notifier.Notify(ctx, notify.ScopeClasses|notify.ScopeSchedule)
	return nil
}
